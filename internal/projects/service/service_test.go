package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/events"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/projecttest"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/repository"
)

var (
	owner    = domain.Actor{ID: "owner-1", DisplayName: "Nimal Perera"}
	governor = domain.Actor{ID: "gov-1", DisplayName: "Platform Governor", IsGovernor: true}
	stranger = domain.Actor{ID: "someone-else"}
	fixedNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func setupService(t *testing.T) (*ProjectService, repository.Store, *recordingPublisher) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repository.NewRedisStore(client)
	pub := &recordingPublisher{}
	svc := NewProjectService(store, Options{
		Publisher: pub,
		Clock:     func() time.Time { return fixedNow },
	})
	return svc, store, pub
}

// seed stores a complete, never approved project.
func seed(t *testing.T, store repository.Store, mutate ...func(p *domain.Project)) *domain.Project {
	t.Helper()
	p := projecttest.CompleteProject()
	for _, fn := range mutate {
		fn(p)
	}
	require.NoError(t, store.Create(context.Background(), p))
	return p
}

// announced seeds a project and takes it through approval.
func announced(t *testing.T, svc *ProjectService, store repository.Store) *domain.Project {
	t.Helper()
	ctx := context.Background()
	p := seed(t, store)
	res, err := svc.RequestApproval(ctx, owner, p.ID)
	require.NoError(t, err)
	require.True(t, res.Requested)
	approved, err := svc.Approve(ctx, governor, p.ID)
	require.NoError(t, err)
	return approved
}

func TestProjectService_CreateAndUpdate(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	t.Run("requires a name", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateProjectInput{OwnerID: "owner-1", Name: "  "})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	p, err := svc.Create(ctx, domain.CreateProjectInput{OwnerID: "owner-1", Name: " Library ", Location: "Galle"})
	require.NoError(t, err)
	assert.Equal(t, "Library", p.Name)
	assert.Equal(t, domain.ApprovalNone, p.ApprovalStatus)

	t.Run("replaces collections and fills ids", func(t *testing.T) {
		scope := "Build a reading room"
		risks := []domain.Risk{{Description: "Funding gap"}}
		updated, err := svc.Update(ctx, owner, p.ID, domain.UpdateProjectInput{Scope: &scope, Risks: &risks})
		require.NoError(t, err)
		assert.Equal(t, scope, updated.Scope)
		require.Len(t, updated.Risks, 1)
		assert.NotEmpty(t, updated.Risks[0].ID)
		assert.Equal(t, "Galle", updated.Location)
	})

	t.Run("rejects unknown document types", func(t *testing.T) {
		docs := []domain.ProjectDocument{{Type: "passport", URL: "https://x.org/a.pdf"}}
		_, err := svc.Update(ctx, owner, p.ID, domain.UpdateProjectInput{Documents: &docs})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("other users cannot edit", func(t *testing.T) {
		name := "Hijacked"
		_, err := svc.Update(ctx, stranger, p.ID, domain.UpdateProjectInput{Name: &name})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := svc.Get(ctx, "proj-00000-0000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectService_Resources(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()
	p := seed(t, store, func(p *domain.Project) {
		p.HumanResources = nil
		p.MaterialResources = nil
	})

	hr, err := svc.AddHumanResource(ctx, owner, p.ID, domain.HumanResourceInput{Role: "Engineer", CostPerDay: 100, Quantity: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, hr.ID)

	_, err = svc.AddMaterialResource(ctx, owner, p.ID, domain.MaterialResourceInput{
		Name: "Pump", CostType: domain.CostRecurring, CostAmount: 300, AmortizationPeriod: 15,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6600.0, got.Cost)

	t.Run("zero amortization is refused before writing", func(t *testing.T) {
		_, err := svc.AddMaterialResource(ctx, owner, p.ID, domain.MaterialResourceInput{
			Name: "Generator", CostType: domain.CostRecurring, CostAmount: 100,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidResource)
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, got.MaterialResources, 1)
	})

	t.Run("update recomputes cost", func(t *testing.T) {
		qty := 1
		_, err := svc.UpdateHumanResource(ctx, owner, p.ID, hr.ID, domain.HumanResourceUpdate{Quantity: &qty})
		require.NoError(t, err)

		b, err := svc.CostBreakdown(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3000.0, b.HumanTotal)
		assert.Equal(t, 600.0, b.MaterialTotal)

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3600.0, got.Cost)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteHumanResource(ctx, owner, p.ID, hr.ID))
		err := svc.DeleteHumanResource(ctx, owner, p.ID, hr.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 600.0, got.Cost)
	})
}

func TestProjectService_FundAccounts(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()
	p := seed(t, store)

	fa, err := svc.AddFundAccount(ctx, owner, p.ID, domain.FundAccountInput{AccountName: "Reserve", AccountNumber: "44-55", BankName: "BOC"})
	require.NoError(t, err)
	assert.Equal(t, domain.AccountPending, fa.Status)

	_, err = svc.SetFundAccountStatus(ctx, owner, p.ID, fa.ID, domain.AccountApproved)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.SetFundAccountStatus(ctx, governor, p.ID, fa.ID, "Frozen")
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := svc.SetFundAccountStatus(ctx, governor, p.ID, fa.ID, domain.AccountApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountApproved, updated.Status)
}

func TestProjectService_RecordDonation(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()
	p := seed(t, store)

	_, err := svc.RecordDonation(ctx, p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RecordDonation(ctx, p.ID, 250)
	require.NoError(t, err)
	got, err := svc.RecordDonation(ctx, p.ID, 100.5)
	require.NoError(t, err)
	assert.Equal(t, 350.5, got.Donations)
}

func TestProjectService_Readiness(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()
	p := seed(t, store)

	r, err := svc.Readiness(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, r.Announcement.Complete())
	assert.False(t, r.CanAnnounce)
	assert.False(t, r.Execution.CanExecute)
}

func TestProjectService_FailedPublishDoesNotFailOperation(t *testing.T) {
	svc, store, pub := setupService(t)
	pub.err = errors.New("broker down")
	p := seed(t, store)

	res, err := svc.RequestApproval(context.Background(), owner, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Requested)
	assert.Equal(t, []string{events.ApprovalRequested}, pub.types())
}
