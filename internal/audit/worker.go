package audit

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultBufferSize bounds the queue of an AsyncPublisher.
	DefaultBufferSize = 1024
	// DefaultDrainTimeout bounds delivery of queued events after shutdown starts.
	DefaultDrainTimeout = 5 * time.Second
)

// AsyncPublisher queues events and hands them to a downstream Publisher from
// a single worker goroutine, so slow sinks never hold up a download. When
// the queue is full the event is dropped and logged.
type AsyncPublisher struct {
	next         Publisher
	inbox        chan Event
	logger       *slog.Logger
	drainTimeout time.Duration
}

// AsyncOption configures an AsyncPublisher.
type AsyncOption func(*AsyncPublisher)

// WithDrainTimeout caps how long Run keeps delivering after its context is
// cancelled. Events still queued at the deadline are dropped.
func WithDrainTimeout(d time.Duration) AsyncOption {
	return func(p *AsyncPublisher) {
		if d > 0 {
			p.drainTimeout = d
		}
	}
}

func NewAsyncPublisher(next Publisher, size int, logger *slog.Logger, opts ...AsyncOption) *AsyncPublisher {
	if size <= 0 {
		size = DefaultBufferSize
	}
	p := &AsyncPublisher{
		next:         next,
		inbox:        make(chan Event, size),
		logger:       logger,
		drainTimeout: DefaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *AsyncPublisher) Emit(ctx context.Context, event Event) error {
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "download event queue full, dropping event",
			"request_id", event.RequestID,
			"sex", event.Sex,
		)
	}
	return nil
}

// Run delivers queued events until ctx is cancelled, then drains what is
// left under the drain timeout.
func (p *AsyncPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.drainTimeout)
			p.drain(drainCtx)
			cancel()
			return ctx.Err()
		case event := <-p.inbox:
			p.deliver(ctx, event)
		}
	}
}

func (p *AsyncPublisher) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			if dropped := p.discard(); dropped > 0 {
				p.logger.Warn("drain timeout reached, dropping download events", "dropped", dropped)
			}
			return
		}
		select {
		case event := <-p.inbox:
			p.deliver(ctx, event)
		default:
			return
		}
	}
}

func (p *AsyncPublisher) discard() int {
	n := 0
	for {
		select {
		case <-p.inbox:
			n++
		default:
			return n
		}
	}
}

func (p *AsyncPublisher) deliver(ctx context.Context, event Event) {
	if err := p.next.Emit(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "failed to deliver download event",
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
