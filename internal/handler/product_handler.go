package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/middleware"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/utils"
)

// ProductHandler handles product-related HTTP endpoints.
type ProductHandler struct {
	deals    *service.DealService
	profiles *service.ProfileService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(deals *service.DealService, profiles *service.ProfileService) *ProductHandler {
	return &ProductHandler{deals: deals, profiles: profiles}
}

// GetProducts returns a page of products with their deals. q searches,
// category filters.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	limit, skip := pageParams(c)

	deals, page, err := h.deals.Browse(c.Request.Context(), c.Query("q"), c.Query("category"), limit, skip)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": deals,
	}, skip, limit, page.Total)
}

// GetProduct returns one product with its deal. Views by an authenticated
// profile are recorded in its history.
func (h *ProductHandler) GetProduct(c *gin.Context) {
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

	resp := gin.H{"product": deal.Product, "deal": deal.Deal}
	if pid := middleware.ProfileID(c); pid != "" {
		if _, err := h.profiles.RecordView(c.Request.Context(), pid, deal.Product); err != nil {
			log.Error().Err(err).Str("profile_id", pid).Int("product_id", id).Msg("Failed to record product view")
		}
		fav, err := h.profiles.IsFavourite(c.Request.Context(), pid, id)
		if err == nil {
			resp["isFavourite"] = fav
		}
	}

	utils.Success(c, 200, "Product retrieved successfully", resp)
}
