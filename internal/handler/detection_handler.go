package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/service"
	"github.com/jengzang/poi-backend-go/pkg/response"
)

// DetectionHandler handles HTTP requests for detection runs
type DetectionHandler struct {
	detectionService *service.DetectionService
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(detectionService *service.DetectionService) *DetectionHandler {
	return &DetectionHandler{
		detectionService: detectionService,
	}
}

// CreateRun handles POST /api/v1/detection/runs
func (h *DetectionHandler) CreateRun(c *gin.Context) {
	var req models.CreateDetectionRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Set by the auth middleware
	createdBy := c.GetString("user")

	run, err := h.detectionService.CreateRun(req, createdBy)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Detection continues in the background; poll the run for status.
	response.Accepted(c, run)
}

// ListRuns handles GET /api/v1/detection/runs
func (h *DetectionHandler) ListRuns(c *gin.Context) {
	var filter models.DetectionRunFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.detectionService.ListRuns(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetRun handles GET /api/v1/detection/runs/:id
func (h *DetectionHandler) GetRun(c *gin.Context) {
	id, err := parseRunID(c)
	if err != nil {
		response.BadRequest(c, "Invalid run ID")
		return
	}

	run, err := h.detectionService.GetRun(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, run)
}

// GetRunPOIs handles GET /api/v1/detection/runs/:id/pois
func (h *DetectionHandler) GetRunPOIs(c *gin.Context) {
	id, err := parseRunID(c)
	if err != nil {
		response.BadRequest(c, "Invalid run ID")
		return
	}

	result, err := h.detectionService.GetRunPOIs(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetRunAssignments handles GET /api/v1/detection/runs/:id/assignments
func (h *DetectionHandler) GetRunAssignments(c *gin.Context) {
	id, err := parseRunID(c)
	if err != nil {
		response.BadRequest(c, "Invalid run ID")
		return
	}

	result, err := h.detectionService.GetRunAssignments(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetRunStatistics handles GET /api/v1/detection/runs/:id/statistics
func (h *DetectionHandler) GetRunStatistics(c *gin.Context) {
	id, err := parseRunID(c)
	if err != nil {
		response.BadRequest(c, "Invalid run ID")
		return
	}

	stats, err := h.detectionService.GetRunStatistics(id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, stats)
}

// ValidateRun handles GET /api/v1/detection/runs/:id/validate
func (h *DetectionHandler) ValidateRun(c *gin.Context) {
	id, err := parseRunID(c)
	if err != nil {
		response.BadRequest(c, "Invalid run ID")
		return
	}

	report, err := h.detectionService.ValidateRun(id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, report)
}

func parseRunID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
