// Package progress streams daily-solver iteration snapshots to connected
// observers over a websocket, so an operator can tail a long weekly run.
// It is an observability seam, not a decision-maker: nothing here feeds
// back into the solver.
package progress

import (
	"encoding/json"
	"os"
	"sync"
)

// Event is one solver progress snapshot.
type Event struct {
	DepotKey  string `json:"depotKey"`
	Weekday   int    `json:"weekday"`
	Iteration int    `json:"iteration"`
	BestCost  int    `json:"bestCostCents"`
}

// Broker fans Events out to subscribers keyed by depot key, mirroring
// the teacher's route-keyed in-memory broker. Publish never blocks: a
// slow subscriber drops events rather than stalling the solver.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan Event]struct{}{}}
}

func (b *Broker) Subscribe(depotKey string) chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	if b.subs[depotKey] == nil {
		b.subs[depotKey] = map[chan Event]struct{}{}
	}
	b.subs[depotKey][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(depotKey string, ch chan Event) {
	b.mu.Lock()
	if m := b.subs[depotKey]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, depotKey)
		}
	}
	b.mu.Unlock()
	close(ch)
}

func (b *Broker) Publish(depotKey string, evt Event) {
	b.mu.Lock()
	for ch := range b.subs[depotKey] {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}

// NewFromEnv returns a RedisBroker when REDIS_URL is set, else an
// in-memory Broker, mirroring the teacher's broker-selection pattern.
func NewFromEnv() (EventBroker, error) {
	if os.Getenv("REDIS_URL") != "" {
		if rb, err := NewRedisBroker(); err == nil {
			return rb, nil
		}
	}
	return NewBroker(), nil
}

// EventBroker is satisfied by both Broker and RedisBroker.
type EventBroker interface {
	Subscribe(depotKey string) chan Event
	Unsubscribe(depotKey string, ch chan Event)
	Publish(depotKey string, evt Event)
}

func (e Event) marshal() ([]byte, error) { return json.Marshal(e) }
