package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "puzzle.generated", Data: map[string]string{"id": "abc123"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: puzzle.generated") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"id":"abc123"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishPuzzleEvent_StatsThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event should trigger stats.updated.
	b.PublishPuzzleEvent("puzzle.generated", "one")
	// Second event immediately after should NOT trigger another.
	b.PublishPuzzleEvent("puzzle.failed", "")

	time.Sleep(50 * time.Millisecond)
	statsCount := 0
	puzzleCount := 0
loop:
	for {
		select {
		case msg := <-ch:
			s := string(msg)
			if strings.Contains(s, "stats.updated") {
				statsCount++
			} else {
				puzzleCount++
			}
		default:
			break loop
		}
	}

	if puzzleCount != 2 {
		t.Errorf("puzzle events = %d, want 2", puzzleCount)
	}
	if statsCount != 1 {
		t.Errorf("stats events = %d, want 1 (throttled)", statsCount)
	}
}

func TestServeHTTPStreams(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(rec, req)
		close(done)
	}()

	// Wait for the subscription to land, then publish and disconnect.
	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	b.Publish(Event{Type: "puzzle.generated", Data: map[string]string{"id": "x"}})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: puzzle.generated") {
		t.Errorf("stream body = %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
}
