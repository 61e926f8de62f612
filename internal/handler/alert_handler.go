package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pricewise/pricewise-api/internal/middleware"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/utils"
)

// AlertHandler handles price alerts.
type AlertHandler struct {
	profiles *service.ProfileService
}

// NewAlertHandler constructs an AlertHandler.
func NewAlertHandler(profiles *service.ProfileService) *AlertHandler {
	return &AlertHandler{profiles: profiles}
}

// CreateAlertRequest is the body of POST /v1/me/alerts.
type CreateAlertRequest struct {
	ProductID   int     `json:"productId" binding:"required"`
	TargetPrice float64 `json:"targetPrice"`
}

// UpdateAlertRequest is the body of PUT /v1/me/alerts/:productId.
type UpdateAlertRequest struct {
	TargetPrice float64 `json:"targetPrice"`
}

// List returns the profile's alerts with live status.
func (h *AlertHandler) List(c *gin.Context) {
	alerts, err := h.profiles.Alerts(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Alerts retrieved successfully", gin.H{"alerts": alerts})
}

// Create adds an alert. An alert that already exists is left unchanged
// and reported with 200 instead of 201.
func (h *AlertHandler) Create(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	if req.ProductID <= 0 {
		utils.ErrorFrom(c, utils.ErrInvalidProductID)
		return
	}

	alerts, added, err := h.profiles.AddAlert(c.Request.Context(), middleware.ProfileID(c), req.ProductID, req.TargetPrice)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	if !added {
		utils.Success(c, 200, "Alert already exists", gin.H{"added": false, "alerts": alerts})
		return
	}
	utils.Success(c, 201, "Alert created successfully", gin.H{"added": true, "alerts": alerts})
}

// Update changes an alert's target price.
func (h *AlertHandler) Update(c *gin.Context) {
	id, err := productIDParam(c, "productId")
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	var req UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	alerts, err := h.profiles.UpdateAlert(c.Request.Context(), middleware.ProfileID(c), id, req.TargetPrice)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Alert updated successfully", gin.H{"alerts": alerts})
}

// Delete removes an alert. Removing a missing alert succeeds.
func (h *AlertHandler) Delete(c *gin.Context) {
	id, err := productIDParam(c, "productId")
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	alerts, err := h.profiles.RemoveAlert(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Alert removed successfully", gin.H{"alerts": alerts})
}
