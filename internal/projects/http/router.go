package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
// governor guards routes reserved for platform governors.
func (h *Handler) Register(rg *gin.RouterGroup, governor gin.HandlerFunc) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.GET("/:id/cost", h.cost)
	rg.GET("/:id/readiness", h.readiness)
	rg.GET("/:id/funding", h.funding)
	rg.POST("/:id/donations", governor, h.recordDonation)

	rg.POST("/:id/human-resources", h.addHumanResource)
	rg.PATCH("/:id/human-resources/:resource_id", h.updateHumanResource)
	rg.DELETE("/:id/human-resources/:resource_id", h.deleteHumanResource)
	rg.POST("/:id/material-resources", h.addMaterialResource)
	rg.PATCH("/:id/material-resources/:resource_id", h.updateMaterialResource)
	rg.DELETE("/:id/material-resources/:resource_id", h.deleteMaterialResource)
	rg.POST("/:id/milestones", h.addMilestone)
	rg.DELETE("/:id/milestones/:milestone_id", h.deleteMilestone)
	rg.POST("/:id/fund-accounts", h.addFundAccount)
	rg.PUT("/:id/fund-accounts/:account_id/status", governor, h.setFundAccountStatus)

	rg.POST("/:id/approval-request", h.requestApproval)
	rg.POST("/:id/approve", governor, h.approve)
	rg.POST("/:id/reject", governor, h.reject)
	rg.PUT("/:id/status", h.updateStatus)

	rg.GET("/:id/milestone-budgets", h.listMilestoneBudgets)
	rg.POST("/:id/milestone-budgets", h.addMilestoneBudget)
	rg.PATCH("/:id/milestone-budgets/:budget_id", h.updateMilestoneBudget)
	rg.DELETE("/:id/milestone-budgets/:budget_id", h.deleteMilestoneBudget)

	rg.GET("/:id/fund-release-requests", h.listFundReleaseRequests)
	rg.POST("/:id/fund-release-requests", h.submitFundReleaseRequest)
	rg.POST("/:id/fund-release-requests/:request_id/review", governor, h.reviewFundReleaseRequest)

	rg.GET("/:id/scheduled-transfers", h.listScheduledTransfers)
	rg.POST("/:id/scheduled-transfers", governor, h.createScheduledTransfer)
	rg.PATCH("/:id/scheduled-transfers/:transfer_id", governor, h.updateScheduledTransfer)
}
