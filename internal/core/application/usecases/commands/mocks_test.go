package commands_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"bagpub/internal/core/application/usecases/commands"
	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/core/domain/services"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 10, 5, 0, 0, time.UTC)

type MockCampaignRepository struct{ mock.Mock }

func (m *MockCampaignRepository) Add(ctx context.Context, c *campaign.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) Update(ctx context.Context, c *campaign.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) Get(ctx context.Context, id kernel.UUID) (*campaign.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*campaign.Campaign, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*campaign.Campaign), args.Error(1)
}

type MockBatchRepository struct{ mock.Mock }

func (m *MockBatchRepository) Add(ctx context.Context, b *batch.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepository) Update(ctx context.Context, b *batch.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Batch), args.Error(1)
}

type MockPrintOrderRepository struct{ mock.Mock }

func (m *MockPrintOrderRepository) GetOrCreate(ctx context.Context, o *batch.PrintOrder) (*batch.PrintOrder, bool, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	if echo, ok := args.Get(0).(func(*batch.PrintOrder) *batch.PrintOrder); ok {
		return echo(o), args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*batch.PrintOrder), args.Bool(1), args.Error(2)
}

func (m *MockPrintOrderRepository) Get(ctx context.Context, id kernel.UUID) (*batch.PrintOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.PrintOrder), args.Error(1)
}

func (m *MockPrintOrderRepository) Update(ctx context.Context, o *batch.PrintOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockAuditLogRepository records appended entries so tests can inspect them.
type MockAuditLogRepository struct {
	mock.Mock
	entries []*auditlog.Entry
}

func (m *MockAuditLogRepository) Append(ctx context.Context, entries ...*auditlog.Entry) error {
	args := m.Called(ctx, entries)
	if args.Error(0) == nil {
		m.entries = append(m.entries, entries...)
	}
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) CampaignRepository() ports.CampaignRepository {
	args := m.Called()
	return args.Get(0).(ports.CampaignRepository)
}

func (m *MockUoW) BatchRepository() ports.BatchRepository {
	args := m.Called()
	return args.Get(0).(ports.BatchRepository)
}

func (m *MockUoW) PrintOrderRepository() ports.PrintOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.PrintOrderRepository)
}

func (m *MockUoW) AuditLogRepository() ports.AuditLogRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditLogRepository)
}

type MockCampaignUoWFactory struct{ mock.Mock }

func (m *MockCampaignUoWFactory) Create() commands.CampaignUoW {
	args := m.Called()
	return args.Get(0).(commands.CampaignUoW)
}

type MockBatchUoWFactory struct{ mock.Mock }

func (m *MockBatchUoWFactory) Create() commands.BatchUoW {
	args := m.Called()
	return args.Get(0).(commands.BatchUoW)
}

type MockUserDirectory struct{ mock.Mock }

func (m *MockUserDirectory) GetClient(ctx context.Context, id kernel.UUID) (party.Client, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(party.Client), args.Error(1)
}

func (m *MockUserDirectory) GetClients(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]party.Client, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]party.Client), args.Error(1)
}

func (m *MockUserDirectory) GetPartner(ctx context.Context, id kernel.UUID) (party.Partner, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(party.Partner), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) {
	m.Called(ctx, n)
}

type MockRateCounter struct{ mock.Mock }

func (m *MockRateCounter) Increment(ctx context.Context, key string, windowStart time.Time, window time.Duration) (int, error) {
	args := m.Called(ctx, key, windowStart, window)
	return args.Int(0), args.Error(1)
}

type MockAssetStore struct{ mock.Mock }

func (m *MockAssetStore) Put(ctx context.Context, folder, name string, content io.Reader) (string, error) {
	args := m.Called(ctx, folder, name, content)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(fixedNow)
}

func generator(clock clockwork.Clock) services.IdentifierGenerator {
	return services.NewIdentifierGenerator(clock, rand.Reader)
}

func postalCodes(t *testing.T, first string, more ...string) []kernel.PostalCode {
	t.Helper()
	raw := append([]string{first}, more...)
	for len(raw) < campaign.MinPostalCodes {
		raw = append(raw, fmt.Sprintf("9900%d", len(raw)))
	}
	codes, err := kernel.PostalCodesFromStrings(raw)
	require.NoError(t, err)
	return codes
}

func templateCampaign(t *testing.T, clientID kernel.UUID, firstCode string) *campaign.Campaign {
	t.Helper()
	design := services.BuildDesign(&campaign.DesignParams{
		Template:      "template_2",
		Slogan:        "Le meilleur pain",
		CompanyPhone:  "06 12 34 56 78",
		ContactMethod: string(campaign.ContactWhatsApp),
	}, party.Client{ID: clientID, CompanyName: "Boulangerie", Email: "shop@example.com"})
	return newCampaign(t, clientID, firstCode, campaign.NewTemplateCard(design))
}

func customCampaign(t *testing.T, clientID kernel.UUID, firstCode string) *campaign.Campaign {
	t.Helper()
	card, err := campaign.NewCustomAssetCard("custom_cards/flyer.pdf", "flyer.pdf", "print@example.com", "0102030405")
	require.NoError(t, err)
	return newCampaign(t, clientID, firstCode, card)
}

func newCampaign(t *testing.T, clientID kernel.UUID, firstCode string, card campaign.CardSource) *campaign.Campaign {
	t.Helper()
	c, err := campaign.NewCampaign(campaign.NewParams{
		ID:             kernel.NewUUID(),
		OrderNumber:    "BP-20250314-" + kernel.NewUUID().String()[:8],
		SecureToken:    strings.Repeat("a", 64),
		Name:           "Campagne test",
		ClientID:       clientID,
		PostalCodes:    postalCodes(t, firstCode),
		EstimatedPrice: 129,
		Faces:          1,
		CardSource:     card,
		CreatedAt:      fixedNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	return c
}
