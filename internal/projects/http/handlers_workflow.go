package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

func (h *Handler) requestApproval(c *gin.Context) {
	res, err := h.svc.RequestApproval(c.Request.Context(), auth.ActorFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	// an incomplete checklist is a normal answer, not an error
	c.JSON(http.StatusOK, gin.H{"ok": res.Requested, "approval": res})
}

func (h *Handler) approve(c *gin.Context) {
	p, err := h.svc.Approve(c.Request.Context(), auth.ActorFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) reject(c *gin.Context) {
	var req rejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	p, err := h.svc.Reject(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

// updateStatus takes both flags on every call.
func (h *Handler) updateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAnnouncedToDonors == nil || req.IsInExecution == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "isAnnouncedToDonors and isInExecution are both required"})
		return
	}

	res, err := h.svc.UpdateStatusFlags(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), domain.StatusFlags{
		IsAnnouncedToDonors: *req.IsAnnouncedToDonors,
		IsInExecution:       *req.IsInExecution,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": res})
}
