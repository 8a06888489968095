// Package sse implements a Server-Sent Events broker that tells connected
// pages when a portfolio document changed.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types.
const (
	TypeChanged = "portfolio.changed"
	TypeRefresh = "portfolio.refresh"
)

// Event is one message written to every connected client.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Change is the payload of a portfolio.changed event.
type Change struct {
	Locale   string `json:"locale"`
	Checksum string `json:"checksum"`
}

// Broker manages SSE client connections and broadcasts events.
//
// A single event loop owns the client set, the last checksum per locale and
// the refresh throttle timestamp. Public methods talk to it over channels.
type Broker struct {
	refreshMin time.Duration
	onClients  func(n int)

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	changeCh      chan Change

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// Option configures a Broker.
type Option func(*Broker)

// WithClientObserver registers fn to be called with the client count after
// every subscribe and unsubscribe. fn runs on the broker loop.
func WithClientObserver(fn func(n int)) Option {
	return func(b *Broker) { b.onClients = fn }
}

// NewBroker creates a broker. refreshThrottle bounds how often the aggregate
// portfolio.refresh event is sent; non-positive means two seconds.
func NewBroker(refreshThrottle time.Duration, opts ...Option) *Broker {
	if refreshThrottle <= 0 {
		refreshThrottle = 2 * time.Second
	}

	b := &Broker{
		refreshMin:    refreshThrottle,
		onClients:     func(int) {},
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		changeCh:      make(chan Change, 256),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b
}

func encode(event Event) ([]byte, bool) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, false
	}
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", event.Type, payload), true
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	seen := make(map[string]string)
	var lastRefresh time.Time

	broadcast := func(event Event) {
		raw, ok := encode(event)
		if !ok {
			return
		}
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Slow client; drop rather than block the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}
			b.onClients(len(clients))

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
				b.onClients(len(clients))
			}

		case c := <-b.changeCh:
			if seen[c.Locale] == c.Checksum {
				continue
			}
			seen[c.Locale] = c.Checksum
			broadcast(Event{Type: TypeChanged, Data: c})

			now := time.Now()
			if now.Sub(lastRefresh) >= b.refreshMin {
				lastRefresh = now
				broadcast(Event{Type: TypeRefresh, Data: map[string]string{}})
			}
		}
	}
}

// Close stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// PublishChange reports that the document for locale now has checksum sum.
// Repeats of the last checksum seen for a locale are dropped.
func (b *Broker) PublishChange(locale, sum string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.changeCh <- Change{Locale: locale, Checksum: sum}:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
