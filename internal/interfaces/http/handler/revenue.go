package handler

import (
	reportingapp "github.com/finboard/backend/internal/application/reporting"
	"github.com/finboard/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RevenueHandler handles dashboard reporting endpoints
type RevenueHandler struct {
	BaseHandler
	revenueService *reportingapp.RevenueService
}

// NewRevenueHandler creates a new RevenueHandler
func NewRevenueHandler(revenueService *reportingapp.RevenueService) *RevenueHandler {
	return &RevenueHandler{revenueService: revenueService}
}

// List handles GET /api/v1/revenues
func (h *RevenueHandler) List(c *gin.Context) {
	revenues, err := h.revenueService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, revenues)
}

// Upsert handles PUT /api/v1/revenues
func (h *RevenueHandler) Upsert(c *gin.Context) {
	var req reportingapp.UpsertRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.revenueService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Overview handles GET /api/v1/overview
func (h *RevenueHandler) Overview(c *gin.Context) {
	resp, err := h.revenueService.Overview(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
