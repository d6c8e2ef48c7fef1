// Package bitrue implements the Bitrue venue adapter: a gzip-JSON
// WebSocket depth subscriber and an HMAC-signed REST order submitter.
package bitrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzip"

	"arby/internal/hub"
	"arby/internal/money"
	"arby/internal/types"
)

// DefaultURL is the production depth feed endpoint.
const DefaultURL = "wss://ws.bitrue.com/market/ws"

// depthFrame is a decoded market-depth push. buys maps to bids.
type depthFrame struct {
	Channel string `json:"channel"`
	Tick    struct {
		Buys [][2]string `json:"buys"`
		Asks [][2]string `json:"asks"`
	} `json:"tick"`
	TS int64 `json:"ts"`
}

type pingFrame struct {
	Ping uint64 `json:"ping"`
}

type pongFrame struct {
	Pong uint64 `json:"pong"`
}

// Subscriber maintains a single WebSocket connection to Bitrue's depth
// feed for one pair, publishing decoded snapshots to a Hub.
type Subscriber struct {
	url  string
	pair string // e.g. "chatusdt"
}

// NewSubscriber returns a Subscriber for pair (the venue's own lowercase,
// no-separator symbol, e.g. "chatusdt") connecting to url.
func NewSubscriber(url, pair string) *Subscriber {
	return &Subscriber{url: url, pair: pair}
}

// Run maintains the connection until ctx is cancelled: dial, subscribe,
// decode frames, publish to h. On any read/decode-fatal error it
// reconnects immediately; the source's "adapted, not improved" retry loop
// has no backoff, and neither does this.
func (s *Subscriber) Run(ctx context.Context, h *hub.Hub) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.connectAndListen(ctx, h); err != nil {
			log.Printf("bitrue: connection error: %v, reconnecting", err)
		}
	}
}

func (s *Subscriber) connectAndListen(ctx context.Context, h *hub.Hub) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// Mirrors the teacher's PairManager.Stop(), which closes the live
	// connection alongside cancel() — ReadMessage below has no other way
	// to unblock when shutdown arrives between frames.
	stopWatching := make(chan struct{})
	defer close(stopWatching)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stopWatching:
		}
	}()

	sub := map[string]any{
		"event": "sub",
		"params": map[string]string{
			"cb_id":   s.pair,
			"channel": "market_" + s.pair + "_simple_depth_step0",
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		payload, err := gunzip(raw)
		if err != nil {
			log.Printf("bitrue: gunzip failed, dropping frame: %v", err)
			continue
		}

		if s.handlePing(conn, payload) {
			continue
		}

		snap, ok := s.decodeDepth(payload)
		if !ok {
			continue
		}
		h.Publish(snap)
	}
}

func gunzip(raw []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *Subscriber) handlePing(conn *websocket.Conn, payload []byte) bool {
	var ping pingFrame
	if err := json.Unmarshal(payload, &ping); err != nil || ping.Ping == 0 {
		return false
	}
	if err := conn.WriteJSON(pongFrame{Pong: ping.Ping}); err != nil {
		log.Printf("bitrue: failed to answer ping: %v", err)
	}
	return true
}

func (s *Subscriber) decodeDepth(payload []byte) (types.OrderbookSnapshot, bool) {
	var frame depthFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		log.Printf("bitrue: malformed depth frame, dropping: %v", err)
		return types.OrderbookSnapshot{}, false
	}
	if len(frame.Tick.Buys) == 0 && len(frame.Tick.Asks) == 0 {
		return types.OrderbookSnapshot{}, false
	}

	bids, bidErr := levelsFrom(frame.Tick.Buys)
	asks, askErr := levelsFrom(frame.Tick.Asks)
	if bidErr != nil || askErr != nil {
		log.Printf("bitrue: malformed price/amount in depth frame, dropping")
		return types.OrderbookSnapshot{}, false
	}

	return types.OrderbookSnapshot{
		Exchange:    types.Bitrue,
		TimestampMs: uint64(frame.TS),
		Bids:        types.NewLadder(bids),
		Asks:        types.NewLadder(asks),
	}, true
}

func levelsFrom(raw [][2]string) ([]types.Level, error) {
	levels := make([]types.Level, 0, len(raw))
	for _, pa := range raw {
		price, err := money.ParsePrice(pa[0])
		if err != nil {
			return nil, err
		}
		amount, err := money.ParseAmount(pa[1])
		if err != nil {
			return nil, err
		}
		levels = append(levels, types.Level{Price: price, Amount: amount})
	}
	return levels, nil
}
