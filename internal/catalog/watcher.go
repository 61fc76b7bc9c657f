// internal/catalog/watcher.go
package catalog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

const booksChannel = "books_changed"

// Lister is the catalog read side consumed by the watcher.
type Lister interface {
	ListBooks(ctx context.Context) ([]*Book, error)
}

// notifier is the subset of *pq.Listener the watcher relies on.
type notifier interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// WatchFunc delivers catalog snapshots until ctx is cancelled.
type WatchFunc func(ctx context.Context, deliver func([]*Book)) error

// Watcher is a change-feed consumer over the books collection.
//
// Delivery contract: one full, normalized catalog snapshot per change event,
// plus an initial snapshot when the watch starts. No batching, no deltas.
// Cancelling ctx ends the watch; no deliveries happen after Watch returns.
type Watcher struct {
	lister    Lister
	dial      func() (notifier, error)
	pingEvery time.Duration
}

// NewWatcher creates a watcher listening on the database's change channel.
// Each Watch call opens its own listener connection.
func NewWatcher(lister Lister, dsn string) *Watcher {
	return &Watcher{
		lister: lister,
		dial: func() (notifier, error) {
			l := pq.NewListener(dsn, 10*time.Second, time.Minute, nil)
			if err := l.Listen(booksChannel); err != nil {
				l.Close()
				return nil, err
			}
			return l, nil
		},
		pingEvery: 90 * time.Second,
	}
}

// Watch blocks, invoking deliver with the full catalog on start and after
// every change, until ctx is cancelled or the feed connection fails.
func (w *Watcher) Watch(ctx context.Context, deliver func([]*Book)) error {
	source, err := w.dial()
	if err != nil {
		return fmt.Errorf("open change feed: %w", err)
	}
	defer source.Close()

	if err := w.deliverSnapshot(ctx, deliver); err != nil {
		return err
	}

	ping := time.NewTicker(w.pingEvery)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-source.NotificationChannel():
			// A nil notification after a reconnect also lands here; either
			// way the current state is re-read and delivered in full.
			if err := w.deliverSnapshot(ctx, deliver); err != nil {
				log.Printf("catalog watch: %v", err)
			}
		case <-ping.C:
			if err := source.Ping(); err != nil {
				return fmt.Errorf("change feed ping: %w", err)
			}
		}
	}
}

func (w *Watcher) deliverSnapshot(ctx context.Context, deliver func([]*Book)) error {
	books, err := w.lister.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if ctx.Err() != nil {
		return nil
	}
	deliver(books)
	return nil
}
