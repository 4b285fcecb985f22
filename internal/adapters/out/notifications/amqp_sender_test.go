package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bagpub/internal/adapters/out/notifications"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestAMQPSender_PublishesPersistentJSON(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 5, 0, 0, time.UTC)
	publisher := &MockPublisher{}
	var published amqp.Publishing
	publisher.On("Publish", "", "notifications", false, false, mock.AnythingOfType("amqp.Publishing")).
		Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
		Return(nil).Once()
	sender := notifications.NewAMQPSender(publisher, "notifications", clockwork.NewFakeClockAt(now))

	err := sender.Send(context.Background(), ports.Notification{
		Template:   ports.TemplateBatchPrintOrder,
		Recipients: []string{"ops@distri.fr"},
		Context: map[string]any{
			"batch_number": "BATCH-75011-20250314-A1B2C3",
			"campaigns":    []map[string]any{{"order_number": "BP-20250314-0A0B0C0D"}},
		},
	})

	require.NoError(t, err)
	publisher.AssertExpectations(t)
	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp.Persistent, published.DeliveryMode)
	assert.Equal(t, "batch_print_order", published.Type)

	var msg notifications.Message
	require.NoError(t, json.Unmarshal(published.Body, &msg))
	assert.Equal(t, "batch_print_order", msg.Template)
	assert.Equal(t, []string{"ops@distri.fr"}, msg.Recipients)
	assert.Equal(t, "BATCH-75011-20250314-A1B2C3", msg.Context["batch_number"])
	assert.True(t, now.Equal(msg.CreatedAt))
}

func TestAMQPSender_ReturnsPublishError(t *testing.T) {
	publisher := &MockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(amqp.ErrClosed).Once()
	sender := notifications.NewAMQPSender(publisher, "notifications", clockwork.NewFakeClock())

	err := sender.Send(context.Background(), ports.Notification{
		Template:   ports.TemplateCampaignCreated,
		Recipients: []string{"martin@example.fr"},
	})

	require.ErrorIs(t, err, amqp.ErrClosed)
}

func TestAMQPSender_CancelledContextSkipsPublish(t *testing.T) {
	publisher := &MockPublisher{}
	sender := notifications.NewAMQPSender(publisher, "notifications", clockwork.NewFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, ports.Notification{Template: ports.TemplateCampaignCreated})

	require.True(t, errors.Is(err, context.Canceled))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAMQPSender_CloseWithoutConnection(t *testing.T) {
	sender := notifications.NewAMQPSender(&MockPublisher{}, "notifications", clockwork.NewFakeClock())

	assert.NoError(t, sender.Close())
}

func TestLogSender_NeverFails(t *testing.T) {
	sender := notifications.NewLogSender(discardLogger())

	assert.NoError(t, sender.Send(context.Background(), notification(ports.TemplateCampaignCreated)))
}
