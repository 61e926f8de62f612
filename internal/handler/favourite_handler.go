package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pricewise/pricewise-api/internal/middleware"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/utils"
)

// FavouriteHandler handles the favourites list.
type FavouriteHandler struct {
	profiles *service.ProfileService
}

// NewFavouriteHandler constructs a FavouriteHandler.
func NewFavouriteHandler(profiles *service.ProfileService) *FavouriteHandler {
	return &FavouriteHandler{profiles: profiles}
}

// List returns favourite ids and the products still in the catalog.
func (h *FavouriteHandler) List(c *gin.Context) {
	view, err := h.profiles.Favourites(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Favourites retrieved successfully", view)
}

// Toggle flips a product's favourite membership.
func (h *FavouriteHandler) Toggle(c *gin.Context) {
	id, err := productIDParam(c, "id")
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	ids, fav, err := h.profiles.ToggleFavourite(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Favourite toggled successfully", gin.H{
		"productId":   id,
		"isFavourite": fav,
		"favourites":  ids,
	})
}
