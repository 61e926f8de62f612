package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pricewise/pricewise-api/internal/utils"
	"github.com/pricewise/pricewise-api/pkg/dummyjson"
)

const maxPageLimit = 100

// productIDParam parses a positive product id from the named path param.
func productIDParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, utils.ErrInvalidProductID
	}
	return id, nil
}

// pageParams reads limit and skip, falling back to the catalog defaults.
func pageParams(c *gin.Context) (limit, skip int) {
	limit = dummyjson.DefaultLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxPageLimit)
		}
	}
	if v := c.Query("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	return limit, skip
}
