package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrExpiredToken       = errors.New("EXPIRED_TOKEN")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrInvalidProductID   = errors.New("INVALID_PRODUCT_ID")
	ErrInvalidTargetPrice = errors.New("INVALID_TARGET_PRICE")
	ErrAlertNotFound      = errors.New("ALERT_NOT_FOUND")
	ErrCatalogUnavailable = errors.New("CATALOG_UNAVAILABLE")
)
