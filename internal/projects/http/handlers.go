package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		badBody(c)
		return
	}

	actor := auth.ActorFrom(c)
	p, err := h.svc.Create(c.Request.Context(), domain.CreateProjectInput{
		OwnerID:   actor.ID,
		OwnerName: actor.DisplayName,
		Name:      req.Name,
		Scope:     req.Scope,
		Category:  req.Category,
		Location:  req.Location,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) recordDonation(c *gin.Context) {
	var req donationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	p, err := h.svc.RecordDonation(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "donations": p.Donations})
}

func (h *Handler) cost(c *gin.Context) {
	b, err := h.svc.CostBreakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "cost": b})
}

func (h *Handler) readiness(c *gin.Context) {
	r, err := h.svc.Readiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "readiness": r})
}

func (h *Handler) funding(c *gin.Context) {
	fs, err := h.svc.Funding(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "funding": fs})
}
