package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/events"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/projecttest"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/repository"
)

func TestMilestoneBudgets(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t)
	p := seed(t, store)

	b, err := svc.AddMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetInput{MilestoneID: "ms_1", Budget: 3250})
	require.NoError(t, err)
	assert.Equal(t, domain.MilestonePlanned, b.Status)
	assert.Equal(t, "Survey complete", b.MilestoneName)
	assert.False(t, b.DueDate.IsZero())

	t.Run("duplicate milestone budget leaves the original", func(t *testing.T) {
		_, err := svc.AddMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetInput{MilestoneID: "ms_1", Budget: 1})
		assert.ErrorIs(t, err, domain.ErrDuplicateMilestoneBudget)
		assert.ErrorIs(t, err, domain.ErrValidation)

		ledger, err := svc.ListMilestoneBudgets(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, ledger.Budgets, 1)
		assert.Equal(t, 3250.0, ledger.Budgets[0].Budget)
	})

	t.Run("unknown milestone", func(t *testing.T) {
		_, err := svc.AddMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetInput{MilestoneID: "ms_404", Budget: 1})
		var nf *domain.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "milestone", nf.Entity)
	})

	t.Run("edit resets status unless one is given", func(t *testing.T) {
		inProgress := domain.MilestoneInProgress
		updated, err := svc.UpdateMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetUpdate{ID: b.ID, Status: &inProgress})
		require.NoError(t, err)
		assert.Equal(t, domain.MilestoneInProgress, updated.Status)

		amount := 4000.0
		updated, err = svc.UpdateMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetUpdate{ID: b.ID, Budget: &amount})
		require.NoError(t, err)
		assert.Equal(t, domain.MilestonePlanned, updated.Status)
		assert.Equal(t, 4000.0, updated.Budget)

		bogus := domain.MilestoneStatus("Done")
		_, err = svc.UpdateMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetUpdate{ID: b.ID, Status: &bogus})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.UpdateMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetUpdate{ID: "ms_1", Budget: &amount})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ledger percentages", func(t *testing.T) {
		_, err := svc.AddMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetInput{MilestoneID: "ms_2", Budget: 3250})
		require.NoError(t, err)

		ledger, err := svc.ListMilestoneBudgets(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 6500.0, ledger.TotalProjectCost)
		assert.Equal(t, 7250.0, ledger.TotalMilestoneBudget)
		assert.True(t, ledger.ExceedsProjectCost)
		assert.Equal(t, 50.0, ledger.Budgets[1].PercentOfTotal)
	})

	t.Run("zero project cost gives zero percent", func(t *testing.T) {
		empty := &domain.Project{MilestoneBudgets: []domain.MilestoneBudget{{ID: "mb_1", Budget: 900}}}
		ledger := Ledger(empty, 0)
		assert.Equal(t, 0.0, ledger.Budgets[0].PercentOfTotal)
		assert.True(t, ledger.ExceedsProjectCost)
	})

	t.Run("deleting a milestone removes its budget", func(t *testing.T) {
		require.NoError(t, svc.DeleteMilestone(ctx, owner, p.ID, "ms_2"))
		ledger, err := svc.ListMilestoneBudgets(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, ledger.Budgets, 1)
		assert.Equal(t, "ms_1", ledger.Budgets[0].MilestoneID)
	})
}

func TestMilestoneBudgets_ConcurrentAddsForOneMilestone(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t)
	p := seed(t, store)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetInput{MilestoneID: "ms_1", Budget: 100})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrDuplicateMilestoneBudget)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	ledger, err := svc.ListMilestoneBudgets(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, ledger.Budgets, 1)
}

func TestPruneOrphanedBudgets(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t)
	p := seed(t, store, func(p *domain.Project) {
		p.MilestoneBudgets = []domain.MilestoneBudget{
			{ID: "mb_live", MilestoneID: "ms_1", Budget: 10, Status: domain.MilestonePlanned},
			{ID: "mb_gone", MilestoneID: "ms_deleted", Budget: 20, Status: domain.MilestonePlanned},
		}
	})
	seed(t, store, func(p *domain.Project) { p.ID = "proj-20000-2000" })

	r, err := svc.Readiness(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"mb_gone"}, r.OrphanedMilestoneBudgets)

	removed, err := svc.PruneOrphanedBudgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.MilestoneBudgets, 1)
	assert.Equal(t, "mb_live", got.MilestoneBudgets[0].ID)

	removed, err = svc.PruneOrphanedBudgets(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

// fundedProject has a 5000 budget on ms_2 and 6000 in donations.
func fundedProject(t *testing.T, store repository.Store, id string) *domain.Project {
	t.Helper()
	p := projecttest.CompleteProject()
	if id != "" {
		p.ID = id
	}
	p.Donations = 6000
	p.MilestoneBudgets = []domain.MilestoneBudget{
		{ID: "mb_1", MilestoneID: "ms_1", MilestoneName: "Survey complete", Budget: 1000, Status: domain.MilestonePlanned},
		{ID: "mb_2", MilestoneID: "ms_2", MilestoneName: "Well #1 drilled", Budget: 5000, Status: domain.MilestonePlanned},
	}
	require.NoError(t, store.Create(context.Background(), p))
	return p
}

func TestSubmitFundReleaseRequest(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := setupService(t)
	p := fundedProject(t, store, "")

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name string
			in   domain.FundReleaseInput
			want error
		}{
			{"zero amount", domain.FundReleaseInput{MilestoneID: "ms_2", Amount: 0}, domain.ErrValidation},
			{"unknown milestone", domain.FundReleaseInput{MilestoneID: "ms_9", Amount: 10}, domain.ErrNotFound},
			{"over budget", domain.FundReleaseInput{MilestoneID: "ms_2", Amount: 5000.01}, domain.ErrValidation},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, tc.in)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})

	req, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_2", Amount: 5000, Description: "Drilling crew"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReleasePending, req.Status)
	assert.Equal(t, "owner-1", req.RequestedBy)
	assert.Equal(t, "Nimal Perera", req.RequestedByName)
	assert.Equal(t, fixedNow, req.RequestDate)
	assert.Contains(t, pub.types(), events.FundReleaseSubmitted)

	t.Run("one active request per milestone", func(t *testing.T) {
		_, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_2", Amount: 10})
		assert.ErrorIs(t, err, domain.ErrActiveFundReleaseExists)
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		_, err := svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: req.ID, Decision: domain.DecisionReject})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("only governors review", func(t *testing.T) {
		_, err := svc.ReviewFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseReview{RequestID: req.ID, Decision: domain.DecisionApprove})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	approved, err := svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: req.ID, Decision: domain.DecisionApprove})
	require.NoError(t, err)
	assert.Equal(t, domain.ReleaseApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)

	t.Run("reviewing twice is an invalid transition", func(t *testing.T) {
		_, err := svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: req.ID, Decision: domain.DecisionApprove})
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("approved releases reduce what can be requested", func(t *testing.T) {
		_, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_1", Amount: 1000.01})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_1", Amount: 1000})
		require.NoError(t, err)

		p2 := fundedProject(t, store, "proj-30000-3000")
		_, err = store.Mutate(ctx, p2.ID, func(p *domain.Project) error {
			p.Donations = 5500
			p.FundReleaseRequests = []domain.FundReleaseRequest{{ID: "frr_old", MilestoneID: "ms_2", Amount: 5000, Status: domain.ReleaseApproved}}
			return nil
		})
		require.NoError(t, err)
		_, err = svc.SubmitFundReleaseRequest(ctx, owner, p2.ID, domain.FundReleaseInput{MilestoneID: "ms_1", Amount: 600})
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("rejected request frees the milestone", func(t *testing.T) {
		reqs, err := svc.ListFundReleaseRequests(ctx, p.ID, domain.ReleasePending)
		require.NoError(t, err)
		require.Len(t, reqs, 1)

		rejected, err := svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: reqs[0].ID, Decision: domain.DecisionReject, Reason: "Invoice missing"})
		require.NoError(t, err)
		assert.Equal(t, "Invoice missing", rejected.RejectionReason)

		_, err = svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_1", Amount: 900})
		require.NoError(t, err)
	})
}

func TestReviewFundReleaseRequest_ApprovalCannotOvercommitDonations(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t)
	p := fundedProject(t, store, "")
	_, err := store.Mutate(ctx, p.ID, func(p *domain.Project) error {
		p.Donations = 5000
		return nil
	})
	require.NoError(t, err)

	// both fit the gross total on their own, so both are accepted while pending
	small, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_1", Amount: 1000})
	require.NoError(t, err)
	large, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_2", Amount: 5000})
	require.NoError(t, err)

	_, err = svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: small.ID, Decision: domain.DecisionApprove})
	require.NoError(t, err)

	_, err = svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: large.ID, Decision: domain.DecisionApprove})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.ErrorContains(t, err, "4000.00")

	reqs, err := svc.ListFundReleaseRequests(ctx, p.ID, domain.ReleasePending)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, large.ID, reqs[0].ID)

	fs, err := svc.Funding(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, fs.ApprovedReleases)
	assert.LessOrEqual(t, fs.ApprovedReleases, fs.GrossDonations)

	t.Run("rejecting is never blocked by funds", func(t *testing.T) {
		rejected, err := svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: large.ID, Decision: domain.DecisionReject, Reason: "Not enough donations yet"})
		require.NoError(t, err)
		assert.Equal(t, domain.ReleaseRejected, rejected.Status)
	})
}

func TestSubmitFundReleaseRequest_DeletedMilestoneReleasesHold(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t)
	p := fundedProject(t, store, "")

	req, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_2", Amount: 5000})
	require.NoError(t, err)
	_, err = svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: req.ID, Decision: domain.DecisionApprove})
	require.NoError(t, err)

	_, err = svc.UpdateMilestoneBudget(ctx, owner, p.ID, domain.MilestoneBudgetUpdate{ID: "mb_1", Budget: ptr(3000.0)})
	require.NoError(t, err)
	_, err = svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_1", Amount: 3000})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// the approved request can never be transferred once its milestone is gone
	require.NoError(t, svc.DeleteMilestone(ctx, owner, p.ID, "ms_2"))
	_, err = svc.CreateScheduledTransfer(ctx, governor, p.ID, domain.ScheduledTransferInput{FundReleaseRequestID: req.ID, RecipientID: "fa_1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_1", Amount: 3000})
	require.NoError(t, err)
}

func TestSubmitFundReleaseRequest_CentsComparison(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t)
	p := fundedProject(t, store, "")
	_, err := store.Mutate(ctx, p.ID, func(p *domain.Project) error {
		p.Donations = 0.3
		p.MilestoneBudgets[0].Budget = 0.3
		return nil
	})
	require.NoError(t, err)

	a, b := 0.1, 0.2
	_, err = svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_1", Amount: a + b})
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }

func TestSubmitFundReleaseRequest_ConcurrentSubmissions(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t)
	p := fundedProject(t, store, "")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_2", Amount: 100})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrActiveFundReleaseExists)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	reqs, err := svc.ListFundReleaseRequests(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}

func TestCreateScheduledTransfer(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := setupService(t)
	p := fundedProject(t, store, "")

	req, err := svc.SubmitFundReleaseRequest(ctx, owner, p.ID, domain.FundReleaseInput{MilestoneID: "ms_2", Amount: 5000})
	require.NoError(t, err)

	t.Run("request must be approved", func(t *testing.T) {
		_, err := svc.CreateScheduledTransfer(ctx, governor, p.ID, domain.ScheduledTransferInput{FundReleaseRequestID: req.ID, RecipientID: "fa_1"})
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	_, err = svc.ReviewFundReleaseRequest(ctx, governor, p.ID, domain.FundReleaseReview{RequestID: req.ID, Decision: domain.DecisionApprove})
	require.NoError(t, err)

	t.Run("missing entities are named", func(t *testing.T) {
		cases := []struct {
			in     domain.ScheduledTransferInput
			entity string
		}{
			{domain.ScheduledTransferInput{FundReleaseRequestID: "frr_404", RecipientID: "fa_1"}, "fund release request"},
			{domain.ScheduledTransferInput{FundReleaseRequestID: req.ID, RecipientID: "fa_404"}, "fund account"},
		}
		for _, tc := range cases {
			_, err := svc.CreateScheduledTransfer(ctx, governor, p.ID, tc.in)
			var nf *domain.NotFoundError
			require.True(t, errors.As(err, &nf), "want not found for %s", tc.entity)
			assert.Equal(t, tc.entity, nf.Entity)
		}
	})

	t.Run("recipient account must be approved", func(t *testing.T) {
		fa, err := svc.AddFundAccount(ctx, owner, p.ID, domain.FundAccountInput{AccountName: "New", AccountNumber: "1"})
		require.NoError(t, err)
		_, err = svc.CreateScheduledTransfer(ctx, governor, p.ID, domain.ScheduledTransferInput{FundReleaseRequestID: req.ID, RecipientID: fa.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	transfer, err := svc.CreateScheduledTransfer(ctx, governor, p.ID, domain.ScheduledTransferInput{
		FundReleaseRequestID: req.ID,
		RecipientID:          "fa_1",
		Notes:                "first tranche",
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, transfer.Amount)
	assert.Equal(t, "Ops Account", transfer.AccountName)
	assert.Equal(t, "Well #1 drilled", transfer.MilestoneName)
	assert.Equal(t, domain.TransferToBeTransferred, transfer.Status)
	assert.Equal(t, "owner-1", transfer.RequestedBy)
	assert.Contains(t, pub.types(), events.TransferScheduled)

	t.Run("one transfer per request", func(t *testing.T) {
		_, err := svc.CreateScheduledTransfer(ctx, governor, p.ID, domain.ScheduledTransferInput{FundReleaseRequestID: req.ID, RecipientID: "fa_1"})
		assert.ErrorIs(t, err, domain.ErrDuplicateTransfer)
	})

	t.Run("snapshot survives later edits", func(t *testing.T) {
		_, err := store.Mutate(ctx, p.ID, func(p *domain.Project) error {
			p.FundAccounts[0].AccountName = "Renamed Account"
			p.FundAccounts[0].BankName = "Other Bank"
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, svc.DeleteMilestone(ctx, owner, p.ID, "ms_2"))

		transfers, err := svc.ListScheduledTransfers(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.Equal(t, "Ops Account", transfers[0].AccountName)
		assert.Equal(t, "Commercial Bank", transfers[0].BankName)
		assert.Equal(t, "Well #1 drilled", transfers[0].MilestoneName)
		assert.Equal(t, 5000.0, transfers[0].Amount)
	})

	t.Run("partial update", func(t *testing.T) {
		done := domain.TransferStatus("Transferred")
		updated, err := svc.UpdateScheduledTransfer(ctx, governor, p.ID, transfer.ID, domain.ScheduledTransferUpdate{Status: &done})
		require.NoError(t, err)
		assert.Equal(t, done, updated.Status)
		assert.Equal(t, "first tranche", updated.Notes)

		_, err = svc.UpdateScheduledTransfer(ctx, governor, p.ID, "st_404", domain.ScheduledTransferUpdate{Status: &done})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("funding summary keeps gross donations", func(t *testing.T) {
		fs, err := svc.Funding(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 6000.0, fs.GrossDonations)
		assert.Equal(t, 5000.0, fs.Committed)
		assert.Equal(t, 1000.0, fs.Available)
		assert.Equal(t, 5000.0, fs.ApprovedReleases)
	})
}
