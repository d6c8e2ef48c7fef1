package lbank

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"arby/internal/hub"
	"arby/internal/money"
	"arby/internal/types"
)

func TestDecodeDepthParsesBidsAndAsks(t *testing.T) {
	s := NewSubscriber(DefaultURL, "chat_usdt")
	payload := []byte(`{"type":"depth","pair":"chat_usdt","depth":{"bids":[["1.0000","5"]],"asks":[["1.1000","3"]]},"TS":"1700000000000"}`)

	snap, ok := s.decodeDepth(payload)
	if !ok {
		t.Fatal("expected successful decode")
	}
	if snap.Exchange != types.LBank {
		t.Errorf("exchange = %v, want LBank", snap.Exchange)
	}
	if snap.TimestampMs != 1700000000000 {
		t.Errorf("timestamp = %d, want 1700000000000", snap.TimestampMs)
	}

	bid, ok := snap.BestBid()
	if !ok || bid.Price.String() != "1" {
		t.Errorf("best bid = %+v, ok=%v, want price 1", bid, ok)
	}
	ask, ok := snap.BestAsk()
	if !ok || ask.Price.String() != "1.1" {
		t.Errorf("best ask = %+v, ok=%v, want price 1.1", ask, ok)
	}
}

func TestDecodeDepthTimestampDefaultsToZeroWhenUnparseable(t *testing.T) {
	s := NewSubscriber(DefaultURL, "chat_usdt")
	payload := []byte(`{"type":"depth","depth":{"bids":[["1.0000","5"]],"asks":[["1.1000","3"]]},"TS":"not-a-number"}`)

	snap, ok := s.decodeDepth(payload)
	if !ok {
		t.Fatal("expected successful decode")
	}
	if snap.TimestampMs != 0 {
		t.Errorf("timestamp = %d, want 0", snap.TimestampMs)
	}
}

func TestDecodeDepthRejectsWrongType(t *testing.T) {
	s := NewSubscriber(DefaultURL, "chat_usdt")
	if _, ok := s.decodeDepth([]byte(`{"type":"ticker"}`)); ok {
		t.Error("expected rejection of a non-depth frame")
	}
}

func TestSignMatchesMD5ThenHMACSHA256(t *testing.T) {
	c := NewClient(DefaultRESTBase, "key", "secret", "chat_usdt")
	query := "amount=1&symbol=chat_usdt"

	sum := md5.Sum([]byte(query))
	upperHex := strings.ToUpper(hex.EncodeToString(sum[:]))
	h := hmac.New(sha256.New, []byte("secret"))
	h.Write([]byte(upperHex))
	want := hex.EncodeToString(h.Sum(nil))

	if got := c.sign(query); got != want {
		t.Errorf("sign() = %s, want %s", got, want)
	}
}

func TestOrderTypeMapsDirectionAndKind(t *testing.T) {
	amount, _ := money.ParseAmount("1")
	price, _ := money.ParsePrice("1")

	cases := []struct {
		order types.PendingOrder
		want  string
	}{
		{types.NewMarketOrder(types.LBank, types.Buy, amount, amount), "buy_market"},
		{types.NewMarketOrder(types.LBank, types.Sell, amount, amount), "sell_market"},
		{types.NewLimitOrder(types.LBank, types.Buy, amount, price), "buy_maker"},
		{types.NewLimitOrder(types.LBank, types.Sell, amount, price), "sell_maker"},
	}
	for _, c := range cases {
		if got := orderType(c.order); got != c.want {
			t.Errorf("orderType(%+v) = %s, want %s", c.order, got, c.want)
		}
	}
}

func TestSubmitPostsSignedRequestAndParsesOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sign") == "" {
			t.Error("expected a sign query param")
		}
		io.ReadAll(r.Body)
		w.Write([]byte(`{"code":"0","msg":"ok","orderId":7}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", "chat_usdt")
	amount, _ := money.ParseAmount("1")
	order := types.NewMarketOrder(types.LBank, types.Sell, amount, amount)

	id, err := c.Submit(context.Background(), order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "7" {
		t.Errorf("order id = %s, want 7", id)
	}
}

func TestRunReturnsPromptlyOnContextCancelWithNoMessageInFlight(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Accept the subscribe frame, then go idle: no further messages
		// are ever sent, matching "shutdown arrives between frames".
		conn.ReadMessage()
		select {}
	}))
	defer srv.Close()

	wsURL := "ws" + srv.URL[len("http"):]
	s := NewSubscriber(wsURL, "chat_usdt")
	h := hub.New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, h)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond) // let the connection establish
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation while idle")
	}
}
