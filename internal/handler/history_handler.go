package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pricewise/pricewise-api/internal/middleware"
	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/utils"
)

// HistoryHandler handles the recently viewed list.
type HistoryHandler struct {
	profiles *service.ProfileService
}

// NewHistoryHandler constructs a HistoryHandler.
func NewHistoryHandler(profiles *service.ProfileService) *HistoryHandler {
	return &HistoryHandler{profiles: profiles}
}

// List returns the history, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	items, err := h.profiles.History(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "History retrieved successfully", gin.H{"history": items})
}

// Add records a posted product.
func (h *HistoryHandler) Add(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	if p.ID <= 0 {
		utils.ErrorFrom(c, utils.ErrInvalidProductID)
		return
	}

	items, err := h.profiles.RecordView(c.Request.Context(), middleware.ProfileID(c), p)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "History updated successfully", gin.H{"history": items})
}

// Clear empties the history.
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.profiles.ClearHistory(c.Request.Context(), middleware.ProfileID(c)); err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "History cleared successfully", gin.H{"history": []models.HistoryItem{}})
}
