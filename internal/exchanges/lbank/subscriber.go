// Package lbank implements the LBank venue adapter: a JSON WebSocket depth
// subscriber and an MD5+HMAC-signed REST order submitter.
package lbank

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/gorilla/websocket"

	"arby/internal/hub"
	"arby/internal/money"
	"arby/internal/types"
)

// DefaultURL is the production depth feed endpoint.
const DefaultURL = "wss://www.lbkex.net/ws/V2/"

type depthFrame struct {
	Type  string `json:"type"`
	Pair  string `json:"pair"`
	Depth struct {
		Bids [][2]string `json:"bids"`
		Asks [][2]string `json:"asks"`
	} `json:"depth"`
	TS string `json:"TS"`
}

type actionFrame struct {
	Action string `json:"action"`
	Ping   string `json:"ping,omitempty"`
	Pong   string `json:"pong,omitempty"`
}

// Subscriber maintains a single WebSocket connection to LBank's depth feed
// for one pair.
type Subscriber struct {
	url  string
	pair string // e.g. "chat_usdt"
}

// NewSubscriber returns a Subscriber for pair connecting to url.
func NewSubscriber(url, pair string) *Subscriber {
	return &Subscriber{url: url, pair: pair}
}

// Run maintains the connection until ctx is cancelled, reconnecting
// immediately (no backoff) on any error.
func (s *Subscriber) Run(ctx context.Context, h *hub.Hub) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.connectAndListen(ctx, h); err != nil {
			log.Printf("lbank: connection error: %v, reconnecting", err)
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

	sub := map[string]string{
		"subscribe": "depth",
		"pair":      s.pair,
		"depth":     "10",
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

		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
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

func (s *Subscriber) handlePing(conn *websocket.Conn, payload []byte) bool {
	var action actionFrame
	if err := json.Unmarshal(payload, &action); err != nil || action.Action != "ping" {
		return false
	}
	if err := conn.WriteJSON(actionFrame{Action: "pong", Pong: action.Ping}); err != nil {
		log.Printf("lbank: failed to answer ping: %v", err)
	}
	return true
}

func (s *Subscriber) decodeDepth(payload []byte) (types.OrderbookSnapshot, bool) {
	var frame depthFrame
	if err := json.Unmarshal(payload, &frame); err != nil || frame.Type != "depth" {
		return types.OrderbookSnapshot{}, false
	}

	bids, bidErr := levelsFrom(frame.Depth.Bids)
	asks, askErr := levelsFrom(frame.Depth.Asks)
	if bidErr != nil || askErr != nil {
		log.Printf("lbank: malformed price/amount in depth frame, dropping")
		return types.OrderbookSnapshot{}, false
	}

	// The venue's timestamp string doesn't always parse as an integer; 0
	// is used in that case, matching the source's tolerance for it.
	ts, err := strconv.ParseUint(frame.TS, 10, 64)
	if err != nil {
		ts = 0
	}

	return types.OrderbookSnapshot{
		Exchange:    types.LBank,
		TimestampMs: ts,
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
