package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/events"
)

func TestRequestApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("complete project moves to pending and stays hidden", func(t *testing.T) {
		svc, store, pub := setupService(t)
		p := seed(t, store)

		res, err := svc.RequestApproval(ctx, owner, p.ID)
		require.NoError(t, err)
		assert.True(t, res.Requested)
		assert.Equal(t, domain.ApprovalPending, res.ApprovalStatus)
		assert.False(t, res.Project.IsAnnouncedToDonors)
		require.NotNil(t, res.Project.ApprovalRequestedAt)
		assert.Equal(t, fixedNow, *res.Project.ApprovalRequestedAt)
		assert.Equal(t, []string{events.ApprovalRequested}, pub.types())
	})

	t.Run("incomplete checklist is reported without writing", func(t *testing.T) {
		svc, store, pub := setupService(t)
		p := seed(t, store, func(p *domain.Project) { p.Risks = nil })

		res, err := svc.RequestApproval(ctx, owner, p.ID)
		require.NoError(t, err)
		assert.False(t, res.Requested)
		require.Len(t, res.Missing, 1)
		assert.Equal(t, "risks", res.Missing[0].Key)
		assert.Empty(t, pub.types())

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalNone, got.ApprovalStatus)
		assert.Equal(t, p.UpdatedAt.Unix(), got.UpdatedAt.Unix())
	})

	t.Run("cannot request twice", func(t *testing.T) {
		svc, store, _ := setupService(t)
		p := seed(t, store)
		_, err := svc.RequestApproval(ctx, owner, p.ID)
		require.NoError(t, err)

		_, err = svc.RequestApproval(ctx, owner, p.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("only the owner may ask", func(t *testing.T) {
		svc, store, _ := setupService(t)
		p := seed(t, store)
		_, err := svc.RequestApproval(ctx, stranger, p.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := setupService(t)
	p := seed(t, store)

	t.Run("not pending", func(t *testing.T) {
		_, err := svc.Approve(ctx, governor, p.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	_, err := svc.RequestApproval(ctx, owner, p.ID)
	require.NoError(t, err)

	t.Run("governors only", func(t *testing.T) {
		_, err := svc.Approve(ctx, owner, p.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	approved, err := svc.Approve(ctx, governor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, approved.ApprovalStatus)
	assert.True(t, approved.IsAnnouncedToDonors)
	assert.NotNil(t, approved.ApprovedAt)
	assert.NotNil(t, approved.AnnouncedAt)
	assert.Equal(t, "gov-1", approved.ReviewedBy)
	assert.Contains(t, pub.types(), events.ProjectApproved)
	assert.Contains(t, pub.types(), events.ProjectAnnounced)

	t.Run("approving twice is an invalid transition", func(t *testing.T) {
		_, err := svc.Approve(ctx, governor, p.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})
}

func TestApprove_ChecklistBrokenWhilePending(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := setupService(t)
	p := seed(t, store)

	_, err := svc.RequestApproval(ctx, owner, p.ID)
	require.NoError(t, err)

	noRisks := []domain.Risk{}
	_, err = svc.Update(ctx, owner, p.ID, domain.UpdateProjectInput{Risks: &noRisks})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, governor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, approved.ApprovalStatus)
	assert.NotNil(t, approved.ApprovedAt)
	assert.False(t, approved.IsAnnouncedToDonors)
	assert.Nil(t, approved.AnnouncedAt)
	assert.Contains(t, pub.types(), events.ProjectApproved)
	assert.NotContains(t, pub.types(), events.ProjectAnnounced)

	report, err := svc.Readiness(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, report.CanAnnounce)

	// the owner restores the missing item and announces without a second approval
	risks := []domain.Risk{{Description: "Monsoon delays"}}
	_, err = svc.Update(ctx, owner, p.ID, domain.UpdateProjectInput{Risks: &risks})
	require.NoError(t, err)

	res, err := svc.UpdateStatusFlags(ctx, owner, p.ID, domain.StatusFlags{IsAnnouncedToDonors: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnnounced, res.Announcement)
	assert.True(t, res.Project.IsAnnouncedToDonors)
	assert.Equal(t, domain.ApprovalApproved, res.Project.ApprovalStatus)
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setupService(t)
	p := seed(t, store)
	_, err := svc.RequestApproval(ctx, owner, p.ID)
	require.NoError(t, err)

	t.Run("blank reason keeps the project pending", func(t *testing.T) {
		for _, reason := range []string{"", "   \t"} {
			_, err := svc.Reject(ctx, governor, p.ID, reason)
			assert.ErrorIs(t, err, domain.ErrValidation)
		}
		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalPending, got.ApprovalStatus)
	})

	rejected, err := svc.Reject(ctx, governor, p.ID, "  Tax document is expired ")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, rejected.ApprovalStatus)
	assert.Equal(t, "Tax document is expired", rejected.RejectionReason)
	assert.False(t, rejected.IsAnnouncedToDonors)

	t.Run("rejecting twice is an invalid transition", func(t *testing.T) {
		_, err := svc.Reject(ctx, governor, p.ID, "again")
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("resubmission goes through a fresh announcement", func(t *testing.T) {
		res, err := svc.UpdateStatusFlags(ctx, owner, p.ID, domain.StatusFlags{IsAnnouncedToDonors: true})
		require.NoError(t, err)
		assert.Equal(t, OutcomeApprovalRequested, res.Announcement)
		assert.Equal(t, domain.ApprovalPending, res.Project.ApprovalStatus)
		assert.Empty(t, res.Project.RejectionReason)
	})
}
