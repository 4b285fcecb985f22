package commands_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"bagpub/internal/core/application/usecases/commands"
	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/core/domain/services"
	"bagpub/internal/core/ports"
	"bagpub/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validCodes = "75001, 75002,75003,75004,75005"

type createCampaignFixture struct {
	uow        *MockUoW
	factory    *MockCampaignUoWFactory
	campaigns  *MockCampaignRepository
	audit      *MockAuditLogRepository
	directory  *MockUserDirectory
	assets     *MockAssetStore
	notifier   *MockNotifier
	counter    *MockRateCounter
	client     party.Client
	handler    commands.CreateCampaignCommandHandler
	clock      *clockwork.FakeClock
	windowFrom time.Time
}

func newCreateCampaignFixture(t *testing.T) *createCampaignFixture {
	t.Helper()
	f := &createCampaignFixture{
		uow:       new(MockUoW),
		factory:   new(MockCampaignUoWFactory),
		campaigns: new(MockCampaignRepository),
		audit:     new(MockAuditLogRepository),
		directory: new(MockUserDirectory),
		assets:    new(MockAssetStore),
		notifier:  new(MockNotifier),
		counter:   new(MockRateCounter),
		clock:     fakeClock(),
		client: party.Client{
			ID:          kernel.NewUUID(),
			CompanyName: "Boulangerie Martin",
			Username:    "martin",
			Email:       "martin@example.com",
			Phone:       "06 11 22 33 44",
			Active:      true,
		},
	}
	f.windowFrom = fixedNow.Truncate(time.Hour)
	f.handler = commands.NewCreateCampaignCommandHandler(
		f.factory,
		f.directory,
		f.assets,
		f.notifier,
		services.NewRateLimiter(f.counter, f.clock, services.DefaultCreationLimit, services.DefaultCreationWindow),
		services.NewCampaignValidator(f.clock),
		generator(f.clock),
		f.clock,
		discardLogger(),
	)
	return f
}

func (f *createCampaignFixture) expectAllowed(count int) {
	f.counter.On("Increment", mock.Anything, "campaign_create:"+f.client.ID.String(), f.windowFrom, time.Hour).
		Return(count, nil).Once()
}

func (f *createCampaignFixture) assertExpectations(t *testing.T) {
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
	f.campaigns.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	f.directory.AssertExpectations(t)
	f.assets.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.counter.AssertExpectations(t)
}

func TestCreateCampaignCommandHandler_Handle_TemplateCampaign(t *testing.T) {
	ctx := t.Context()
	f := newCreateCampaignFixture(t)

	f.directory.On("GetClient", ctx, f.client.ID).Return(f.client, nil).Once()
	f.expectAllowed(1)
	f.factory.On("Create").Return(f.uow).Once()

	var stored *campaign.Campaign
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("CampaignRepository").Return(f.campaigns).Once(),
		f.campaigns.On("Add", ctx, mock.AnythingOfType("*campaign.Campaign")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*campaign.Campaign) }).
			Return(nil).Once(),
		f.uow.On("AuditLogRepository").Return(f.audit).Once(),
		f.audit.On("Append", ctx, mock.Anything).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	f.notifier.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Template == ports.TemplateCampaignCreated &&
			len(n.Recipients) == 1 && n.Recipients[0] == "martin@example.com"
	})).Once()

	cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{
		PostalCodes: validCodes,
		Faces:       "3",
		Design: &campaign.DesignParams{
			Template:      "template_7",
			Slogan:        "<b>Pain chaud</b>",
			ContactMethod: "whatsapp",
		},
	})
	require.NoError(t, err)

	result, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, stored.ID(), result.CampaignID)
	assert.True(t, strings.HasPrefix(result.OrderNumber, "BP-20250314-"))
	assert.Equal(t, "Boulangerie Martin - Campagne 2025", result.Name)
	assert.Equal(t, 1000, result.Quantity)
	assert.InDelta(t, 129.0, result.EstimatedPrice, 0.001)
	assert.Len(t, result.PostalCodes, 5)
	assert.False(t, result.HasCustomCard)
	require.NotNil(t, result.Design)
	assert.Equal(t, "template_7", result.Design.Template())
	assert.Equal(t, "bPain chaud/b", result.Design.Slogan())
	assert.Equal(t, "martin@example.com", result.Design.CompanyEmail())
	assert.True(t, strings.HasPrefix(result.Design.QRPayload(), "https://wa.me/33611223344?text="))

	assert.Equal(t, campaign.StatusCreated, stored.Status())
	assert.Equal(t, campaign.PrintingNotSent, stored.PrintingStatus())
	assert.Equal(t, 1, stored.Faces())
	assert.Len(t, stored.SecureToken(), 64)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, auditlog.ActionCreated, f.audit.entries[0].Action())
	assert.Equal(t, stored.ID(), *f.audit.entries[0].CampaignID())
	assert.Equal(t, f.client.ID, *f.audit.entries[0].ActorID())
	f.assertExpectations(t)
}

func TestCreateCampaignCommandHandler_Handle_CustomCard(t *testing.T) {
	ctx := t.Context()
	f := newCreateCampaignFixture(t)
	content := strings.NewReader("%PDF-1.7")

	f.directory.On("GetClient", ctx, f.client.ID).Return(f.client, nil).Once()
	f.expectAllowed(4)
	f.assets.On("Put", ctx, "custom_cards", "flyer.PDF", content).Return("custom_cards/3f2a.pdf", nil).Once()
	f.factory.On("Create").Return(f.uow).Once()

	var stored *campaign.Campaign
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("CampaignRepository").Return(f.campaigns).Once(),
		f.campaigns.On("Add", ctx, mock.Anything).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*campaign.Campaign) }).
			Return(nil).Once(),
		f.uow.On("AuditLogRepository").Return(f.audit).Once(),
		f.audit.On("Append", ctx, mock.Anything).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	f.notifier.On("Notify", ctx, mock.Anything).Once()

	cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{
		Name:          "Ouverture",
		PostalCodes:   validCodes,
		UseCustomCard: true,
		CustomCard:    &commands.Upload{Name: "flyer.PDF", Size: 2048, Content: content},
		Faces:         "2",
	})
	require.NoError(t, err)

	result, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.HasCustomCard)
	assert.Nil(t, result.Design)
	card, ok := stored.CustomCard()
	require.True(t, ok)
	assert.Equal(t, "custom_cards/3f2a.pdf", card.AssetRef())
	assert.Equal(t, "martin@example.com", card.ContactEmail())
	assert.Equal(t, 2, stored.Faces())
	f.assertExpectations(t)
}

func TestCreateCampaignCommandHandler_Handle_StoresLogo(t *testing.T) {
	ctx := t.Context()
	f := newCreateCampaignFixture(t)
	logo := strings.NewReader("png")

	f.directory.On("GetClient", ctx, f.client.ID).Return(f.client, nil).Once()
	f.expectAllowed(1)
	f.assets.On("Put", ctx, "logos", "logo.png", logo).Return("logos/logo.png", nil).Once()
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("CampaignRepository").Return(f.campaigns).Once()
	f.campaigns.On("Add", ctx, mock.Anything).Return(nil).Once()
	f.uow.On("AuditLogRepository").Return(f.audit).Once()
	f.audit.On("Append", ctx, mock.Anything).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.notifier.On("Notify", ctx, mock.Anything).Once()

	cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{
		PostalCodes: validCodes,
		Logo:        &commands.Upload{Name: "logo.png", Size: 3, Content: logo},
	})
	require.NoError(t, err)

	result, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, result.Design)
	assert.Equal(t, "logos/logo.png", result.Design.LogoRef())
	assert.Equal(t, campaign.DefaultTemplate, result.Design.Template())
	f.assertExpectations(t)
}

func TestCreateCampaignCommandHandler_Handle_RateLimited(t *testing.T) {
	ctx := t.Context()
	f := newCreateCampaignFixture(t)

	f.directory.On("GetClient", ctx, f.client.ID).Return(f.client, nil).Once()
	f.expectAllowed(11)

	cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{PostalCodes: validCodes})
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrRateLimited)
	var rateErr *errs.RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 55*time.Minute, rateErr.RetryAfter)
	f.factory.AssertNotCalled(t, "Create")
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCreateCampaignCommandHandler_Handle_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input commands.CreateCampaignInput
		is    error
		text  string
	}{
		{
			name:  "malformed postal code is named",
			input: commands.CreateCampaignInput{PostalCodes: "75001,7500A,75003,75004,75005"},
			is:    errs.ErrValueIsInvalid,
			text:  "7500A",
		},
		{
			name:  "too few postal codes",
			input: commands.CreateCampaignInput{PostalCodes: "75001,75002,,75003"},
			is:    errs.ErrValueIsOutOfRange,
		},
		{
			name: "custom card with forbidden extension",
			input: commands.CreateCampaignInput{
				PostalCodes:   validCodes,
				UseCustomCard: true,
				CustomCard:    &commands.Upload{Name: "card.exe", Size: 10, Content: strings.NewReader("x")},
			},
			is: errs.ErrValueIsInvalid,
		},
		{
			name:  "custom card missing",
			input: commands.CreateCampaignInput{PostalCodes: validCodes, UseCustomCard: true},
			is:    errs.ErrValueIsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			f := newCreateCampaignFixture(t)
			f.directory.On("GetClient", ctx, f.client.ID).Return(f.client, nil).Once()
			f.expectAllowed(1)

			cmd, err := commands.NewCreateCampaignCommand(f.client.ID, tt.input)
			require.NoError(t, err)

			_, err = f.handler.Handle(ctx, cmd)

			require.ErrorIs(t, err, tt.is)
			if tt.text != "" {
				assert.Contains(t, err.Error(), tt.text)
			}
			f.factory.AssertNotCalled(t, "Create")
			f.assets.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestCreateCampaignCommandHandler_Handle_ClientErrors(t *testing.T) {
	t.Run("unknown client", func(t *testing.T) {
		ctx := t.Context()
		f := newCreateCampaignFixture(t)
		f.directory.On("GetClient", ctx, f.client.ID).
			Return(party.Client{}, errs.NewObjectNotFoundError("client", f.client.ID.String())).Once()

		cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{PostalCodes: validCodes})
		require.NoError(t, err)

		_, err = f.handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		f.counter.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inactive client", func(t *testing.T) {
		ctx := t.Context()
		f := newCreateCampaignFixture(t)
		inactive := f.client
		inactive.Active = false
		f.directory.On("GetClient", ctx, f.client.ID).Return(inactive, nil).Once()

		cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{PostalCodes: validCodes})
		require.NoError(t, err)

		_, err = f.handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestCreateCampaignCommandHandler_Handle_RetriesIdentifierCollision(t *testing.T) {
	ctx := t.Context()
	f := newCreateCampaignFixture(t)

	f.directory.On("GetClient", ctx, f.client.ID).Return(f.client, nil).Once()
	f.expectAllowed(1)
	f.factory.On("Create").Return(f.uow).Twice()
	f.uow.On("Begin", ctx).Return(nil).Twice()
	f.uow.On("CampaignRepository").Return(f.campaigns).Twice()

	var numbers []string
	record := func(args mock.Arguments) {
		numbers = append(numbers, args.Get(1).(*campaign.Campaign).OrderNumber())
	}
	f.campaigns.On("Add", ctx, mock.Anything).Run(record).Return(errs.ErrIdentifierCollision).Once()
	f.campaigns.On("Add", ctx, mock.Anything).Run(record).Return(nil).Once()
	f.uow.On("AuditLogRepository").Return(f.audit).Once()
	f.audit.On("Append", ctx, mock.Anything).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Twice()
	f.notifier.On("Notify", ctx, mock.Anything).Once()

	cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{PostalCodes: validCodes})
	require.NoError(t, err)

	result, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, numbers, 2)
	assert.Equal(t, numbers[1], result.OrderNumber)
	f.assertExpectations(t)
}

func TestCreateCampaignCommandHandler_Handle_CollisionAttemptsExhausted(t *testing.T) {
	ctx := t.Context()
	f := newCreateCampaignFixture(t)

	f.directory.On("GetClient", ctx, f.client.ID).Return(f.client, nil).Once()
	f.expectAllowed(1)
	f.factory.On("Create").Return(f.uow).Times(5)
	f.uow.On("Begin", ctx).Return(nil).Times(5)
	f.uow.On("CampaignRepository").Return(f.campaigns).Times(5)
	f.campaigns.On("Add", ctx, mock.Anything).Return(errs.ErrIdentifierCollision).Times(5)
	f.uow.On("Rollback", ctx).Return(nil).Times(5)

	cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{PostalCodes: validCodes})
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrGeneration)
	var genErr *errs.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 5, genErr.Attempts)
	assert.Equal(t, "order_number", genErr.Target)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestCreateCampaignCommandHandler_Handle_BeginErrorIsInternal(t *testing.T) {
	ctx := t.Context()
	f := newCreateCampaignFixture(t)

	f.directory.On("GetClient", ctx, f.client.ID).Return(f.client, nil).Once()
	f.expectAllowed(1)
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(errors.New("dial tcp 10.0.0.3:5432: connection refused")).Once()

	cmd, err := commands.NewCreateCampaignCommand(f.client.ID, commands.CreateCampaignInput{PostalCodes: validCodes})
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInternal)
	assert.Equal(t, "internal error: create campaign failed", err.Error())
	f.assertExpectations(t)
}

func TestCreateCampaignCommandHandler_Handle_NotConstructed(t *testing.T) {
	f := newCreateCampaignFixture(t)

	_, err := f.handler.Handle(t.Context(), commands.CreateCampaignCommand{})

	require.ErrorIs(t, err, commands.ErrCreateCampaignCommandIsNotConstructed)
	f.directory.AssertNotCalled(t, "GetClient", mock.Anything, mock.Anything)
}

// memoryCampaignStore enforces unique order numbers and tokens like the database does.
type memoryCampaignStore struct {
	mu       sync.Mutex
	numbers  map[string]struct{}
	tokens   map[string]struct{}
	attempts int
}

type memoryCampaignUoW struct {
	store   *memoryCampaignStore
	pending []*campaign.Campaign
}

func (u *memoryCampaignUoW) Begin(context.Context) error    { return nil }
func (u *memoryCampaignUoW) Rollback(context.Context) error { return nil }

func (u *memoryCampaignUoW) Commit(context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.attempts++
	for _, c := range u.pending {
		if _, ok := u.store.numbers[c.OrderNumber()]; ok {
			return errs.ErrIdentifierCollision
		}
		if _, ok := u.store.tokens[c.SecureToken()]; ok {
			return errs.ErrIdentifierCollision
		}
	}
	for _, c := range u.pending {
		u.store.numbers[c.OrderNumber()] = struct{}{}
		u.store.tokens[c.SecureToken()] = struct{}{}
	}
	return nil
}

func (u *memoryCampaignUoW) CampaignRepository() ports.CampaignRepository { return memoryCampaignRepo{u} }
func (u *memoryCampaignUoW) AuditLogRepository() ports.AuditLogRepository { return memoryAuditRepo{} }

type memoryCampaignRepo struct{ uow *memoryCampaignUoW }

func (r memoryCampaignRepo) Add(_ context.Context, c *campaign.Campaign) error {
	r.uow.pending = append(r.uow.pending, c)
	return nil
}
func (r memoryCampaignRepo) Update(context.Context, *campaign.Campaign) error { return nil }
func (r memoryCampaignRepo) Get(context.Context, kernel.UUID) (*campaign.Campaign, error) {
	return nil, errs.NewObjectNotFoundError("campaign", nil)
}
func (r memoryCampaignRepo) GetMany(context.Context, []kernel.UUID) ([]*campaign.Campaign, error) {
	return nil, nil
}

type memoryAuditRepo struct{}

func (memoryAuditRepo) Append(context.Context, ...*auditlog.Entry) error { return nil }

type memoryCampaignUoWFactory struct{ store *memoryCampaignStore }

func (f memoryCampaignUoWFactory) Create() commands.CampaignUoW {
	return &memoryCampaignUoW{store: f.store}
}

type staticDirectory struct{ client party.Client }

func (d staticDirectory) GetClient(context.Context, kernel.UUID) (party.Client, error) { return d.client, nil }
func (d staticDirectory) GetClients(context.Context, []kernel.UUID) (map[kernel.UUID]party.Client, error) {
	return map[kernel.UUID]party.Client{d.client.ID: d.client}, nil
}
func (d staticDirectory) GetPartner(context.Context, kernel.UUID) (party.Partner, error) {
	return party.Partner{}, nil
}

type unlimitedCounter struct{}

func (unlimitedCounter) Increment(context.Context, string, time.Time, time.Duration) (int, error) {
	return 1, nil
}

type silentNotifier struct{}

func (silentNotifier) Notify(context.Context, ports.Notification) {}

func TestCreateCampaignCommandHandler_Handle_ConcurrentCreationsGetUniqueIdentifiers(t *testing.T) {
	const n = 10000
	ctx := t.Context()
	clock := fakeClock()
	client := party.Client{ID: kernel.NewUUID(), Username: "load", Email: "load@example.com", Active: true}
	store := &memoryCampaignStore{numbers: map[string]struct{}{}, tokens: map[string]struct{}{}}

	handler := commands.NewCreateCampaignCommandHandler(
		memoryCampaignUoWFactory{store: store},
		staticDirectory{client: client},
		nil,
		silentNotifier{},
		services.NewRateLimiter(unlimitedCounter{}, clock, services.DefaultCreationLimit, time.Hour),
		services.NewCampaignValidator(clock),
		generator(clock),
		clock,
		discardLogger(),
	)
	cmd, err := commands.NewCreateCampaignCommand(client.ID, commands.CreateCampaignInput{PostalCodes: validCodes})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]struct{}, n)
		failed  []error
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := handler.Handle(ctx, cmd)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
				return
			}
			numbers[result.OrderNumber] = struct{}{}
		}()
	}
	wg.Wait()

	require.Empty(t, failed)
	assert.Len(t, numbers, n)
	assert.Len(t, store.numbers, n)
	assert.Len(t, store.tokens, n)
	assert.GreaterOrEqual(t, store.attempts, n)
}
