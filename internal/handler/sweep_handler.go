package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/service"
	"github.com/jengzang/poi-backend-go/pkg/response"
)

// SweepHandler handles HTTP requests for parameter sweeps
type SweepHandler struct {
	sweepService *service.SweepService
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(sweepService *service.SweepService) *SweepHandler {
	return &SweepHandler{
		sweepService: sweepService,
	}
}

// CreateSweep handles POST /api/v1/sweeps
func (h *SweepHandler) CreateSweep(c *gin.Context) {
	var req models.CreateSweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	run, err := h.sweepService.CreateSweep(req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// The sweep continues in the background; poll it by sweep id.
	response.Accepted(c, run)
}

// GetSweep handles GET /api/v1/sweeps/:sweepId
func (h *SweepHandler) GetSweep(c *gin.Context) {
	sweepID := c.Param("sweepId")

	result, err := h.sweepService.GetSweep(sweepID)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, result)
}
