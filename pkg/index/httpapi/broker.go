package httpapi

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/live"
)

// SubscriberBuffer is how many undelivered events a subscriber may hold
// before it is evicted.
const SubscriberBuffer = 64

// Broker fans one upstream change stream out to every connected client.
type Broker struct {
	mu   sync.Mutex
	subs map[string]chan live.Event
	log  logrus.FieldLogger
}

// NewBroker returns a broker with no subscribers.
func NewBroker(log logrus.FieldLogger) *Broker {
	return &Broker{subs: make(map[string]chan live.Event), log: log}
}

// Start subscribes to svc and forwards its events until ctx is done or the
// upstream closes; subscriber channels are closed then.
func (b *Broker) Start(ctx context.Context, svc index.Service) error {
	upstream, err := svc.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		defer b.closeAll()
		for ev := range upstream {
			b.Publish(ev)
		}
	}()
	return nil
}

// Subscribe registers a new client and returns its id and channel.
func (b *Broker) Subscribe() (string, <-chan live.Event) {
	id := uuid.NewString()
	ch := make(chan live.Event, SubscriberBuffer)
	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()
	b.log.WithField("subscriber", id).Debug("change feed subscribed")
	return id, ch
}

// Unsubscribe removes a client.
func (b *Broker) Unsubscribe(id string) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()
	if ok {
		close(ch)
		b.log.WithField("subscriber", id).Debug("change feed unsubscribed")
	}
}

// Publish delivers ev to every subscriber. A subscriber whose buffer is full
// is evicted: its channel is closed so the client reconnects and resyncs
// instead of silently missing changes.
func (b *Broker) Publish(ev live.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			close(ch)
			delete(b.subs, id)
			b.log.WithFields(logrus.Fields{"subscriber": id, "path": ev.Path}).Warn("evicting slow subscriber")
		}
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
