package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultWorkers     = 4
	DefaultQueueSize   = 1024
	DefaultMaxAttempts = 3
	DefaultBackoff     = 2 * time.Second
	DefaultSendTimeout = 10 * time.Second
)

// Sender hands one notification to the transport.
type Sender interface {
	Send(ctx context.Context, n ports.Notification) error
}

// Config tunes the dispatcher. Zero fields take the defaults; a negative Backoff
// retries immediately.
type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
	SendTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Backoff == 0 {
		c.Backoff = DefaultBackoff
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = DefaultSendTimeout
	}
	return c
}

// Dispatcher is a channel-fed worker pool implementing ports.Notifier.
type Dispatcher struct {
	sender Sender
	clock  clockwork.Clock
	logger *slog.Logger
	cfg    Config

	queue chan ports.Notification
	abort chan struct{}
	wg    sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool
}

func NewDispatcher(sender Sender, clock clockwork.Clock, logger *slog.Logger, cfg Config) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{
		sender: sender,
		clock:  clock,
		logger: logger.With("component", "notification_dispatcher"),
		cfg:    cfg,
		queue:  make(chan ports.Notification, cfg.QueueSize),
		abort:  make(chan struct{}),
	}
}

// Start launches the workers. Further calls do nothing.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	for i := range d.cfg.Workers {
		d.wg.Add(1)
		go d.work(i)
	}
	d.logger.Info("Notification dispatcher started", "workers", d.cfg.Workers, "queue_size", d.cfg.QueueSize)
}

// Notify enqueues n without blocking. Notifications without recipients, and any
// notification arriving at a full or closed queue, are dropped.
func (d *Dispatcher) Notify(ctx context.Context, n ports.Notification) {
	if len(n.Recipients) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.WarnContext(ctx, "Notification dropped, dispatcher is shut down", "template", n.Template)
		return
	}

	select {
	case d.queue <- n:
	default:
		d.logger.WarnContext(ctx, "Notification dropped, queue is full",
			"template", n.Template, "queue_size", d.cfg.QueueSize)
	}
}

// Shutdown stops accepting notifications and waits for the queued ones to be
// delivered. When ctx ends first, pending retries are abandoned and ctx.Err() is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.InfoContext(ctx, "Notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		close(d.abort)
		return ctx.Err()
	}
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	logger := d.logger.With("worker", id)
	for n := range d.queue {
		d.deliver(logger, n)
	}
}

func (d *Dispatcher) deliver(logger *slog.Logger, n ports.Notification) {
	var err error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		if err = d.send(n); err == nil {
			return
		}
		logger.Warn("Notification send failed",
			"template", n.Template, "attempt", attempt, "max_attempts", d.cfg.MaxAttempts, "error", err)

		if attempt == d.cfg.MaxAttempts || !d.wait(time.Duration(attempt)*d.cfg.Backoff) {
			break
		}
	}
	logger.Error("Notification abandoned", "template", n.Template, "recipients", len(n.Recipients), "error", err)
}

func (d *Dispatcher) send(n ports.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()
	return d.sender.Send(ctx, n)
}

// wait sleeps for delay and reports false when the dispatcher is aborted meanwhile.
func (d *Dispatcher) wait(delay time.Duration) bool {
	if delay <= 0 {
		return true
	}
	select {
	case <-d.clock.After(delay):
		return true
	case <-d.abort:
		return false
	}
}
