package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/utils"
)

// DealHandler serves seller comparisons.
type DealHandler struct {
	deals *service.DealService
}

// NewDealHandler constructs a DealHandler.
func NewDealHandler(deals *service.DealService) *DealHandler {
	return &DealHandler{deals: deals}
}

// GetDeal returns the comparison for a catalog product.
func (h *DealHandler) GetDeal(c *gin.Context) {
	id, err := productIDParam(c, "id")
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	deal, err := h.deals.Compare(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Deal evaluated successfully", deal.Deal)
}

// EvaluateRequest carries the product fields the deal depends on.
type EvaluateRequest struct {
	Price              *float64 `json:"price" binding:"required"`
	DiscountPercentage float64  `json:"discountPercentage"`
}

// Evaluate computes the comparison for a posted price and discount.
func (h *DealHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	if *req.Price < 0 || req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		utils.Error(c, 400, "INVALID_FIELD", "Price must be non-negative and discount between 0 and 100")
		return
	}

	deal := service.EvaluateDeal(models.Product{Price: *req.Price, DiscountPercentage: req.DiscountPercentage})
	utils.Success(c, 200, "Deal evaluated successfully", deal)
}
