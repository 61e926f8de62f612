package models

// StoredAlert is the persisted part of a price alert: only the product id
// and the user-set target price.
type StoredAlert struct {
	ProductID   int     `json:"productId"`
	TargetPrice float64 `json:"targetPrice"`
}

// AlertStatus enumerates the states of a resolved price alert.
type AlertStatus string

const (
	AlertStatusMonitoring AlertStatus = "monitoring"
	AlertStatusDropped    AlertStatus = "dropped"
	AlertStatusOutOfStock AlertStatus = "out-of-stock"
)

// PriceAlert is a stored alert joined with live catalog data.
type PriceAlert struct {
	ProductID    int         `json:"productId"`
	Title        string      `json:"title"`
	Thumbnail    string      `json:"thumbnail"`
	CurrentPrice float64     `json:"currentPrice"`
	TargetPrice  float64     `json:"targetPrice"`
	Stock        int         `json:"stock"`
	Status       AlertStatus `json:"status"`
}
