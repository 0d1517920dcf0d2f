package desktop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leeforge/genico/logging"
	"go.uber.org/zap"
)

var (
	ErrBusClosed      = errors.New("event bus closed")
	ErrPublishTimeout = errors.New("event publish timed out")
)

// Event is a push notification from the privileged side to the UI.
type Event struct {
	Name      string
	Payload   any
	Timestamp time.Time
}

type EventHandler func(ctx context.Context, event Event) error

type Subscription interface {
	Unsubscribe()
}

// EventBus delivers events through a buffered channel and applies
// backpressure to publishers when the buffer is full.
type EventBus struct {
	subscribers map[string][]subscriberEntry
	mu          sync.RWMutex
	ch          chan eventEnvelope
	wg          sync.WaitGroup
	closed      atomic.Bool
	logger      logging.Logger
	nextID      atomic.Uint64

	// sendMu is held shared by publishers while they send and exclusively
	// by Close before it stops dispatch, so no send lands after the drain.
	sendMu  sync.RWMutex
	closing chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

type eventEnvelope struct {
	ctx   context.Context
	event Event
}

type subscriberEntry struct {
	id      uint64
	handler EventHandler
}

type subscription struct {
	bus   *EventBus
	topic string
	id    uint64
}

func (s *subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	subs := s.bus.subscribers[s.topic]
	for i, entry := range subs {
		if entry.id == s.id {
			s.bus.subscribers[s.topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// NewEventBus creates a new EventBus with the given buffer size.
func NewEventBus(bufferSize int, logger logging.Logger) *EventBus {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	if logger == nil {
		logger = logging.Nop()
	}
	bus := &EventBus{
		subscribers: make(map[string][]subscriberEntry),
		ch:          make(chan eventEnvelope, bufferSize),
		logger:      logger,
		closing:     make(chan struct{}),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}

	go bus.dispatch()
	return bus
}

func (b *EventBus) dispatch() {
	defer close(b.stopped)
	for {
		select {
		case env := <-b.ch:
			b.fanOut(env)
		case <-b.done:
			for {
				select {
				case env := <-b.ch:
					b.fanOut(env)
				default:
					return
				}
			}
		}
	}
}

// fanOut runs handlers one after another so a subscriber sees events in
// publish order.
func (b *EventBus) fanOut(env eventEnvelope) {
	b.mu.RLock()
	subs := append([]subscriberEntry{}, b.subscribers[env.event.Name]...)
	b.mu.RUnlock()

	for _, entry := range subs {
		b.wg.Add(1)
		func() {
			defer b.wg.Done()
			if err := entry.handler(env.ctx, env.event); err != nil {
				b.logger.Warn("event handler error",
					zap.String("event", env.event.Name),
					zap.Error(err))
			}
		}()
	}
}

// Publish sends an event. Blocks until buffer has space, ctx expires or
// the bus closes.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	b.sendMu.RLock()
	defer b.sendMu.RUnlock()

	if b.closed.Load() {
		return ErrBusClosed
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	env := eventEnvelope{ctx: ctx, event: event}

	select {
	case b.ch <- env:
		return nil
	default:
		select {
		case b.ch <- env:
			return nil
		case <-b.closing:
			return ErrBusClosed
		case <-ctx.Done():
			return ErrPublishTimeout
		}
	}
}

// Subscribe registers a handler for a topic.
func (b *EventBus) Subscribe(topic string, handler EventHandler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID.Add(1)
	b.subscribers[topic] = append(b.subscribers[topic], subscriberEntry{
		id:      id,
		handler: handler,
	})

	return &subscription{bus: b, topic: topic, id: id}
}

// Close stops accepting new events, delivers the pending ones and waits for
// running handlers.
func (b *EventBus) Close() error {
	if b.closed.Swap(true) {
		return nil
	}

	close(b.closing)
	b.sendMu.Lock()
	close(b.done)
	b.sendMu.Unlock()
	<-b.stopped
	b.wg.Wait()
	return nil
}
