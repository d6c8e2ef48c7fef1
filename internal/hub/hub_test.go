package hub_test

import (
	"testing"
	"time"

	"arby/internal/hub"
	"arby/internal/money"
	"arby/internal/types"
)

func snapshot(e types.Exchange, ts uint64) types.OrderbookSnapshot {
	price, _ := money.ParsePrice("1.0000")
	amount, _ := money.ParseAmount("1")
	return types.OrderbookSnapshot{
		Exchange:    e,
		TimestampMs: ts,
		Asks:        types.NewLadder([]types.Level{{Price: price, Amount: amount}}),
		Bids:        types.NewLadder([]types.Level{{Price: price, Amount: amount}}),
	}
}

func TestSubscribeReceivesSubsequentPublications(t *testing.T) {
	h := hub.New()
	r := h.Subscribe()

	h.Publish(snapshot(types.Bitrue, 1))

	select {
	case d := <-r.C:
		if d.Snapshot.TimestampMs != 1 {
			t.Errorf("got timestamp %d, want 1", d.Snapshot.TimestampMs)
		}
		if d.Dropped != 0 {
			t.Errorf("got Dropped %d, want 0", d.Dropped)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestMultipleSubscribersEachGetACopy(t *testing.T) {
	h := hub.New()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish(snapshot(types.LBank, 42))

	for _, r := range []*hub.Receiver{a, b} {
		select {
		case d := <-r.C:
			if d.Snapshot.TimestampMs != 42 {
				t.Errorf("got timestamp %d, want 42", d.Snapshot.TimestampMs)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
}

func TestSlowSubscriberDropsAndReportsGap(t *testing.T) {
	h := hub.New()
	r := h.Subscribe()

	total := 1100 // > subscriberCapacity of 1024
	for i := 0; i < total; i++ {
		h.Publish(snapshot(types.Bitrue, uint64(i)))
	}

	var last hub.Delivery
	var gotAny bool
	for {
		select {
		case d := <-r.C:
			last = d
			gotAny = true
		default:
			goto done
		}
	}
done:
	if !gotAny {
		t.Fatal("expected at least one delivery")
	}
	if last.Snapshot.TimestampMs != uint64(total-1) {
		t.Errorf("last delivered timestamp = %d, want %d (newest)", last.Snapshot.TimestampMs, total-1)
	}
	if last.Dropped == 0 {
		t.Errorf("last delivery Dropped = 0, want the gap made to queue it reported")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := hub.New()
	r := h.Subscribe()
	h.Unsubscribe(r)

	if got := h.Subscribers(); got != 0 {
		t.Fatalf("Subscribers() = %d, want 0", got)
	}

	h.Publish(snapshot(types.Bitrue, 1))

	select {
	case _, ok := <-r.C:
		if ok {
			t.Error("expected no delivery after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishDoesNotBlockWithNoSubscribers(t *testing.T) {
	h := hub.New()
	done := make(chan struct{})
	go func() {
		h.Publish(snapshot(types.Bitrue, 1))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
}
