package sse

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func drain(ch chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

// observed returns a broker option that reports client counts on a channel.
func observed() (Option, chan int) {
	counts := make(chan int, 16)
	return WithClientObserver(func(n int) { counts <- n }), counts
}

func waitClients(t *testing.T, counts chan int, want int) {
	t.Helper()
	select {
	case n := <-counts:
		if n != want {
			t.Fatalf("clients = %d, want %d", n, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for %d clients", want)
	}
}

func TestClientObserver(t *testing.T) {
	opt, counts := observed()
	b := NewBroker(100*time.Millisecond, opt)
	defer b.Close()

	ch := b.Subscribe()
	waitClients(t, counts, 1)
	b.Unsubscribe(ch)
	waitClients(t, counts, 0)
}

func TestPublishChange_PayloadAndRefreshThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChange("", "aaa")
	b.PublishChange("es", "bbb")
	time.Sleep(50 * time.Millisecond)

	var changed, refresh int
	for _, msg := range drain(ch) {
		switch {
		case strings.Contains(msg, "event: "+TypeChanged):
			changed++
		case strings.Contains(msg, "event: "+TypeRefresh):
			refresh++
		}
	}
	if changed != 2 {
		t.Errorf("changed events = %d, want 2", changed)
	}
	if refresh != 1 {
		t.Errorf("refresh events = %d, want 1 (throttled)", refresh)
	}
}

func TestPublishChange_DropsRepeatedChecksum(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChange("", "same")
	b.PublishChange("", "same")
	b.PublishChange("", "other")
	time.Sleep(50 * time.Millisecond)

	var changes []string
	for _, msg := range drain(ch) {
		if strings.Contains(msg, TypeChanged) {
			changes = append(changes, msg)
		}
	}
	if len(changes) != 2 {
		t.Fatalf("changes = %q, want 2", changes)
	}
	if !strings.Contains(changes[0], `"checksum":"same"`) || !strings.Contains(changes[1], `"checksum":"other"`) {
		t.Errorf("unexpected payloads %q", changes)
	}
}

func TestSSEHandler(t *testing.T) {
	opt, counts := observed()
	b := NewBroker(100*time.Millisecond, opt)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	waitClients(t, counts, 1)

	b.PublishChange("en", "c0ffee")
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: portfolio.changed") || !strings.Contains(body, `"locale":"en"`) {
		t.Errorf("handler output missing event: %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content-type = %q", ct)
	}

	waitClients(t, counts, 0)
}

func TestSlowClientDoesNotBlock(t *testing.T) {
	opt, counts := observed()
	b := NewBroker(time.Second, opt)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)
	waitClients(t, counts, 1)

	for i := range 100 {
		b.PublishChange("", fmt.Sprintf("sum-%d", i))
	}
	other := b.Subscribe()
	defer b.Unsubscribe(other)
	waitClients(t, counts, 2)
}

func TestCloseIsTerminal(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	b.PublishChange("", "x")
	b.Close()
	if _, ok := <-b.Subscribe(); ok {
		t.Error("subscribe after close should yield a closed channel")
	}
}
