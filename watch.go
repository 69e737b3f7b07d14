package flshm

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how long a Watcher sleeps between idle polls.
const DefaultPollInterval = 50 * time.Millisecond

// Handler receives each message seen by a Watcher. The message is owned by
// the handler; the lock is not held while it runs.
type Handler func(msg *Message)

// Observer is notified of Watcher activity.
type Observer interface {
	// LockAcquired reports how long the Watcher waited for the lock.
	LockAcquired(wait time.Duration)
	// MessageReceived is called for each decoded message.
	MessageReceived(msg *Message)
	// ReadFailed is called when the pending message could not be decoded.
	ReadFailed(err error)
	// ConnectionsSeen reports the registry size observed under the same lock.
	ConnectionsSeen(n int)
}

// Watcher polls a Segment for new messages.
//
// The tick is polled without the lock; the lock is only taken once a new tick
// shows up. In consume mode each message is cleared after it is read, which
// frees the slot for the next writer.
type Watcher struct {
	seg      *Segment
	handler  Handler
	observer Observer
	wait     *WaitStrategy
	interval time.Duration
	consume  bool

	last uint32

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithConsume clears each message after reading it.
func WithConsume(consume bool) WatcherOption {
	return func(w *Watcher) { w.consume = consume }
}

// WithObserver sets the Observer notified of activity.
func WithObserver(o Observer) WatcherOption {
	return func(w *Watcher) { w.observer = o }
}

// WithPollInterval sets the idle sleep between polls.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithWaitStrategy replaces the default adaptive spin.
func WithWaitStrategy(ws *WaitStrategy) WatcherOption {
	return func(w *Watcher) { w.wait = ws }
}

// NewWatcher creates a Watcher for seg. It does not start polling.
func NewWatcher(seg *Segment, handler Handler, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		seg:      seg,
		handler:  handler,
		observer: nopObserver{},
		wait:     NewWaitStrategy(),
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the Watcher on its own goroutine until Stop.
func (w *Watcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			Info("watcher stopped", "err", err)
		}
	}()
}

// Stop ends a Watcher started with Start and waits for it to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// Run polls until ctx is done or the segment fails. It returns ctx.Err() on
// cancellation and the lock error if the lock fails.
func (w *Watcher) Run(ctx context.Context) error {
	pending := func() bool {
		t := w.seg.Tick()
		return t != 0 && (w.consume || t != w.last)
	}
	sleep := func() {
		timer := time.NewTimer(w.interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !w.wait.Wait(pending, sleep) {
			continue
		}
		msg, err := w.take()
		// A message already taken is delivered even if the unlock failed.
		if msg != nil && w.handler != nil {
			w.handler(msg)
		}
		if err != nil {
			return err
		}
	}
}

// take reads the pending message under the lock. In consume mode the
// message is cleared, so it is returned along with any unlock error.
func (w *Watcher) take() (*Message, error) {
	start := time.Now()
	if err := w.seg.Lock(); err != nil {
		return nil, err
	}
	w.observer.LockAcquired(time.Since(start))

	tick := w.seg.Tick()
	var (
		msg     *Message
		readErr error
	)
	if w.consume {
		// A malformed message is cleared too, or it would be retried forever.
		msg, readErr = w.seg.Consume()
	} else {
		msg, readErr = w.seg.Read()
	}
	if readErr != nil {
		w.observer.ReadFailed(readErr)
	} else if msg != nil {
		w.observer.MessageReceived(msg)
	}
	w.last = tick
	w.observer.ConnectionsSeen(len(w.seg.Connections()))

	return msg, w.seg.Unlock()
}

type nopObserver struct{}

func (nopObserver) LockAcquired(time.Duration) {}
func (nopObserver) MessageReceived(*Message)   {}
func (nopObserver) ReadFailed(error)           {}
func (nopObserver) ConnectionsSeen(int)        {}
