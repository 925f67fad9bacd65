package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

func (h *Handler) addHumanResource(c *gin.Context) {
	var req humanResourceReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Role == nil || req.CostPerDay == nil || req.Quantity == nil {
		badBody(c)
		return
	}

	hr, err := h.svc.AddHumanResource(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.HumanResourceInput{
		Role:       *req.Role,
		CostPerDay: *req.CostPerDay,
		Quantity:   *req.Quantity,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "humanResource": hr})
}

func (h *Handler) updateHumanResource(c *gin.Context) {
	var req humanResourceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	hr, err := h.svc.UpdateHumanResource(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), c.Param("resource_id"), domain.HumanResourceUpdate{
		Role:       req.Role,
		CostPerDay: req.CostPerDay,
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "humanResource": hr})
}

func (h *Handler) deleteHumanResource(c *gin.Context) {
	if err := h.svc.DeleteHumanResource(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), c.Param("resource_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) addMaterialResource(c *gin.Context) {
	var req materialResourceReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || req.CostType == nil || req.CostAmount == nil {
		badBody(c)
		return
	}

	in := domain.MaterialResourceInput{
		Name:       *req.Name,
		CostType:   *req.CostType,
		CostAmount: *req.CostAmount,
	}
	if req.AmortizationPeriod != nil {
		in.AmortizationPeriod = *req.AmortizationPeriod
	}

	mr, err := h.svc.AddMaterialResource(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "materialResource": mr})
}

func (h *Handler) updateMaterialResource(c *gin.Context) {
	var req materialResourceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	mr, err := h.svc.UpdateMaterialResource(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), c.Param("resource_id"), domain.MaterialResourceUpdate{
		Name:               req.Name,
		CostType:           req.CostType,
		CostAmount:         req.CostAmount,
		AmortizationPeriod: req.AmortizationPeriod,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "materialResource": mr})
}

func (h *Handler) deleteMaterialResource(c *gin.Context) {
	if err := h.svc.DeleteMaterialResource(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), c.Param("resource_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) addMilestone(c *gin.Context) {
	var req milestoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	m, err := h.svc.AddMilestone(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.MilestoneInput{Name: req.Name, Date: req.Date})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "milestone": m})
}

func (h *Handler) deleteMilestone(c *gin.Context) {
	if err := h.svc.DeleteMilestone(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), c.Param("milestone_id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) addFundAccount(c *gin.Context) {
	var req fundAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	fa, err := h.svc.AddFundAccount(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.FundAccountInput{
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "fundAccount": fa})
}

func (h *Handler) setFundAccountStatus(c *gin.Context) {
	var req accountStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	fa, err := h.svc.SetFundAccountStatus(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), c.Param("account_id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "fundAccount": fa})
}
