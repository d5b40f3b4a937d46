package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"booking-service/internal/events"
)

const publishTimeout = 5 * time.Second

// Dispatcher publishes ledger events after commit on background goroutines
// and tracks them so shutdown can wait for the ones still in flight.
type Dispatcher struct {
	publisher events.EventPublisher
	inflight  sync.WaitGroup
}

func NewDispatcher(pub events.EventPublisher) *Dispatcher {
	return &Dispatcher{publisher: pub}
}

// Go runs publish in the background. A failed publish is logged and never
// changes the committed outcome.
func (d *Dispatcher) Go(publish func(ctx context.Context, pub events.EventPublisher) error) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := publish(ctx, d.publisher); err != nil {
			slog.WarnContext(ctx, "Failed to publish ledger event", "error", err)
		}
	}()
}

// Drain blocks until every dispatched publish has returned or ctx is done.
// Callers stop accepting requests first.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains in-flight publishes and then closes the publisher.
func (d *Dispatcher) Close(ctx context.Context) error {
	if err := d.Drain(ctx); err != nil {
		slog.WarnContext(ctx, "Ledger events still in flight at shutdown", "error", err)
	}
	return d.publisher.Close()
}
