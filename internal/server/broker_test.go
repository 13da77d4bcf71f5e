package server

import (
	"encoding/json"
	"testing"
)

func TestBrokerPublishesToSessionOnly(t *testing.T) {
	b := NewBroker()
	mine := b.Subscribe("s-1")
	other := b.Subscribe("s-2")
	defer mine.Close()
	defer other.Close()

	n := b.Publish("s-1", HuntEvent{Type: EventClueCompleted, ClueID: "start", NextClueID: "cipher"})
	if n != 1 {
		t.Errorf("Publish delivered to %d streams, want 1", n)
	}

	select {
	case data := <-mine.C:
		var ev HuntEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if ev.Type != EventClueCompleted || ev.ClueID != "start" || ev.NextClueID != "cipher" {
			t.Errorf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("subscriber of s-1 got nothing")
	}

	select {
	case data := <-other.C:
		t.Errorf("subscriber of s-2 got %s", data)
	default:
	}
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("s")
	c := b.Subscribe("s")
	if got := b.Subscribers("s"); got != 2 {
		t.Fatalf("Subscribers = %d, want 2", got)
	}

	a.Close()
	a.Close()
	if got := b.Subscribers("s"); got != 1 {
		t.Errorf("Subscribers after one close = %d, want 1", got)
	}

	c.Close()
	if got := b.Subscribers("s"); got != 0 {
		t.Errorf("Subscribers after close = %d, want 0", got)
	}
	if n := b.Publish("s", HuntEvent{Type: EventRequestFailed}); n != 0 {
		t.Errorf("Publish with no streams delivered %d, want 0", n)
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe("s")
	defer sub.Close()

	delivered := 0
	for range subscriberBuffer + 5 {
		delivered += b.Publish("s", HuntEvent{Type: EventRequestFailed})
	}
	if delivered != subscriberBuffer {
		t.Errorf("delivered = %d, want %d", delivered, subscriberBuffer)
	}
	if len(sub.C) != subscriberBuffer {
		t.Errorf("buffered = %d, want %d", len(sub.C), subscriberBuffer)
	}
}

func TestBrokerCloseSession(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("s")
	c := b.Subscribe("s")
	other := b.Subscribe("t")
	defer other.Close()

	if n := b.CloseSession("s"); n != 2 {
		t.Errorf("CloseSession ended %d streams, want 2", n)
	}
	for i, sub := range []*Subscription{a, c} {
		select {
		case <-sub.Done():
		default:
			t.Errorf("subscription %d: Done not closed", i)
		}
	}
	select {
	case <-other.Done():
		t.Error("subscription of another session was ended")
	default:
	}

	if got := b.Subscribers("s"); got != 0 {
		t.Errorf("Subscribers after CloseSession = %d, want 0", got)
	}
	a.Close()
	if n := b.CloseSession("s"); n != 0 {
		t.Errorf("second CloseSession ended %d streams, want 0", n)
	}
}
