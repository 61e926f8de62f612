package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pricewise/pricewise-api/internal/middleware"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/utils"
)

// ProfileHandler handles profile creation and the account view.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Create allocates a profile and returns its token.
func (h *ProfileHandler) Create(c *gin.Context) {
	tok, err := h.profiles.Create(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 201, "Profile created successfully", tok)
}

// Me returns the account summary.
func (h *ProfileHandler) Me(c *gin.Context) {
	sum, err := h.profiles.Summary(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Profile retrieved successfully", sum)
}
