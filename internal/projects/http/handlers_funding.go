package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

func (h *Handler) listMilestoneBudgets(c *gin.Context) {
	ledger, err := h.svc.ListMilestoneBudgets(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "ledger": ledger})
}

func (h *Handler) addMilestoneBudget(c *gin.Context) {
	var req milestoneBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	b, err := h.svc.AddMilestoneBudget(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.MilestoneBudgetInput{
		MilestoneID:   req.MilestoneID,
		MilestoneName: req.MilestoneName,
		DueDate:       req.DueDate,
		Budget:        req.Budget,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "milestoneBudget": b})
}

func (h *Handler) updateMilestoneBudget(c *gin.Context) {
	var req milestoneBudgetUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	b, err := h.svc.UpdateMilestoneBudget(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.MilestoneBudgetUpdate{
		ID:            c.Param("budget_id"),
		MilestoneName: req.MilestoneName,
		DueDate:       req.DueDate,
		Budget:        req.Budget,
		Status:        req.Status,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "milestoneBudget": b})
}

func (h *Handler) deleteMilestoneBudget(c *gin.Context) {
	if err := h.svc.DeleteMilestoneBudget(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), c.Param("budget_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listFundReleaseRequests(c *gin.Context) {
	items, err := h.svc.ListFundReleaseRequests(c.Request.Context(), c.Param("id"), domain.ReleaseStatus(c.Query("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "fundReleaseRequests": items})
}

func (h *Handler) submitFundReleaseRequest(c *gin.Context) {
	var req fundReleaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	r, err := h.svc.SubmitFundReleaseRequest(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.FundReleaseInput{
		MilestoneID: req.MilestoneID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "fundReleaseRequest": r})
}

func (h *Handler) reviewFundReleaseRequest(c *gin.Context) {
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	r, err := h.svc.ReviewFundReleaseRequest(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.FundReleaseReview{
		RequestID: c.Param("request_id"),
		Decision:  req.Decision,
		Reason:    req.Reason,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "fundReleaseRequest": r})
}

func (h *Handler) listScheduledTransfers(c *gin.Context) {
	items, err := h.svc.ListScheduledTransfers(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "scheduledTransfers": items})
}

func (h *Handler) createScheduledTransfer(c *gin.Context) {
	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	t, err := h.svc.CreateScheduledTransfer(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.ScheduledTransferInput{
		FundReleaseRequestID: req.FundReleaseRequestID,
		RecipientID:          req.RecipientID,
		ScheduledDate:        req.ScheduledDate,
		Notes:                req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "scheduledTransfer": t})
}

func (h *Handler) updateScheduledTransfer(c *gin.Context) {
	var req transferUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	t, err := h.svc.UpdateScheduledTransfer(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), c.Param("transfer_id"), domain.ScheduledTransferUpdate{
		Status:        req.Status,
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "scheduledTransfer": t})
}
