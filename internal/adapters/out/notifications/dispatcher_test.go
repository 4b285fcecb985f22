package notifications_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"bagpub/internal/adapters/out/notifications"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender fails the first failures sends and records every delivered notification.
type recordingSender struct {
	mu        sync.Mutex
	failures  int
	attempts  int
	delivered []ports.Notification
	block     chan struct{}
}

func (s *recordingSender) Send(_ context.Context, n ports.Notification) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	s.delivered = append(s.delivered, n)
	return nil
}

func (s *recordingSender) snapshot() (int, []ports.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts, append([]ports.Notification(nil), s.delivered...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func notification(template ports.Template) ports.Notification {
	return ports.Notification{
		Template:   template,
		Recipients: []string{"martin@example.fr"},
		Context:    map[string]any{"order_number": "BP-20250314-0A0B0C0D"},
	}
}

func TestDispatcher_DeliversQueuedNotifications(t *testing.T) {
	sender := &recordingSender{}
	d := notifications.NewDispatcher(sender, clockwork.NewRealClock(), discardLogger(),
		notifications.Config{Workers: 3, Backoff: -1})
	d.Start()

	for range 20 {
		d.Notify(context.Background(), notification(ports.TemplateCampaignCreated))
	}
	require.NoError(t, d.Shutdown(context.Background()))

	attempts, delivered := sender.snapshot()
	assert.Equal(t, 20, attempts)
	assert.Len(t, delivered, 20)
}

func TestDispatcher_RetriesUntilSuccess(t *testing.T) {
	sender := &recordingSender{failures: 2}
	d := notifications.NewDispatcher(sender, clockwork.NewRealClock(), discardLogger(),
		notifications.Config{Workers: 1, MaxAttempts: 3, Backoff: -1})
	d.Start()

	d.Notify(context.Background(), notification(ports.TemplateSentToPrint))
	require.NoError(t, d.Shutdown(context.Background()))

	attempts, delivered := sender.snapshot()
	assert.Equal(t, 3, attempts)
	require.Len(t, delivered, 1)
	assert.Equal(t, ports.TemplateSentToPrint, delivered[0].Template)
}

func TestDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	sender := &recordingSender{failures: 10}
	d := notifications.NewDispatcher(sender, clockwork.NewRealClock(), discardLogger(),
		notifications.Config{Workers: 1, MaxAttempts: 3, Backoff: -1})
	d.Start()

	d.Notify(context.Background(), notification(ports.TemplateStatusChanged))
	require.NoError(t, d.Shutdown(context.Background()))

	attempts, delivered := sender.snapshot()
	assert.Equal(t, 3, attempts)
	assert.Empty(t, delivered)
}

func TestDispatcher_WaitsBackoffBetweenAttempts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sender := &recordingSender{failures: 1}
	d := notifications.NewDispatcher(sender, clock, discardLogger(),
		notifications.Config{Workers: 1, MaxAttempts: 2, Backoff: time.Minute})
	d.Start()

	d.Notify(context.Background(), notification(ports.TemplatePartnerAssigned))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	attempts, delivered := sender.snapshot()
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delivered)

	clock.Advance(time.Minute)
	require.NoError(t, d.Shutdown(context.Background()))

	attempts, delivered = sender.snapshot()
	assert.Equal(t, 2, attempts)
	assert.Len(t, delivered, 1)
}

func TestDispatcher_NotifyNeverBlocks(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := notifications.NewDispatcher(sender, clockwork.NewRealClock(), discardLogger(),
		notifications.Config{Workers: 1, QueueSize: 2, Backoff: -1})
	d.Start()

	done := make(chan struct{})
	go func() {
		for range 50 {
			d.Notify(context.Background(), notification(ports.TemplateCampaignCreated))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(sender.block)
	require.NoError(t, d.Shutdown(context.Background()))
	_, delivered := sender.snapshot()
	assert.LessOrEqual(t, len(delivered), 3, "one in flight plus a full queue, the rest dropped")
}

func TestDispatcher_SkipsNotificationsWithoutRecipients(t *testing.T) {
	sender := &recordingSender{}
	d := notifications.NewDispatcher(sender, clockwork.NewRealClock(), discardLogger(), notifications.Config{})
	d.Start()

	d.Notify(context.Background(), ports.Notification{Template: ports.TemplateCampaignCreated})
	require.NoError(t, d.Shutdown(context.Background()))

	attempts, _ := sender.snapshot()
	assert.Zero(t, attempts)
}

func TestDispatcher_NotifyAfterShutdownIsDropped(t *testing.T) {
	sender := &recordingSender{}
	d := notifications.NewDispatcher(sender, clockwork.NewRealClock(), discardLogger(), notifications.Config{})
	d.Start()
	require.NoError(t, d.Shutdown(context.Background()))

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), notification(ports.TemplateCampaignCreated))
	})
	require.NoError(t, d.Shutdown(context.Background()), "second shutdown is a no-op")

	attempts, _ := sender.snapshot()
	assert.Zero(t, attempts)
}

func TestDispatcher_ShutdownHonoursContext(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sender := &recordingSender{failures: 5}
	d := notifications.NewDispatcher(sender, clock, discardLogger(),
		notifications.Config{Workers: 1, MaxAttempts: 5, Backoff: time.Hour})
	d.Start()
	d.Notify(context.Background(), notification(ports.TemplatePrintCompleted))

	waitCtx, cancelWait := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelWait()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Shutdown(ctx)

	require.ErrorIs(t, err, context.Canceled)
}
