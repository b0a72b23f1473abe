package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/poi-backend-go/internal/models"
	"github.com/jengzang/poi-backend-go/internal/service"
	"github.com/jengzang/poi-backend-go/pkg/response"
)

// MerchantHandler handles HTTP requests for merchants
type MerchantHandler struct {
	merchantService *service.MerchantService
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(merchantService *service.MerchantService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
	}
}

// ImportMerchants handles POST /api/v1/merchants/import
func (h *MerchantHandler) ImportMerchants(c *gin.Context) {
	var req models.ImportMerchantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.merchantService.Import(req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, result)
}

// ListMerchants handles GET /api/v1/merchants
func (h *MerchantHandler) ListMerchants(c *gin.Context) {
	var filter models.MerchantFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.merchantService.List(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// CountMerchants handles GET /api/v1/merchants/count
func (h *MerchantHandler) CountMerchants(c *gin.Context) {
	count, err := h.merchantService.Count()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"count": count})
}
