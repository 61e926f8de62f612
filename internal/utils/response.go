package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Response defines the standard API response envelope.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID  string      `json:"requestId"`
	Timestamp  string      `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination mirrors the catalog's skip/limit paging.
type Pagination struct {
	Skip       int `json:"skip"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// SuccessWithPagination writes a success response with pagination metadata.
func SuccessWithPagination(c *gin.Context, code int, message string, data any, skip, limit, totalItems int) {
	meta := newMeta(c)
	meta.Pagination = &Pagination{Skip: skip, Limit: limit, TotalItems: totalItems}
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: message,
		Error: &ErrorInfo{
			Code:    errCode,
			Message: message,
		},
		Meta: newMeta(c),
	})
}

// errorStatus maps sentinel errors to HTTP status and message.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{ErrInvalidToken, http.StatusUnauthorized, "Invalid profile token"},
	{ErrExpiredToken, http.StatusUnauthorized, "Profile token expired"},
	{ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{ErrInvalidProductID, http.StatusBadRequest, "Invalid product id"},
	{ErrInvalidTargetPrice, http.StatusBadRequest, "Target price must be greater than zero"},
	{ErrAlertNotFound, http.StatusNotFound, "No alert for this product"},
	{ErrCatalogUnavailable, http.StatusBadGateway, "Product catalog unavailable"},
}

// ErrorFrom writes the response matching a sentinel error, or a generic
// 500 for anything else.
func ErrorFrom(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			Error(c, e.status, e.err.Error(), e.message)
			return
		}
	}
	log.Error().Err(err).Str("request_id", getRequestID(c)).Str("route", c.FullPath()).Msg("Request failed")
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		RequestID: getRequestID(c),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
