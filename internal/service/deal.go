package service

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pricewise/pricewise-api/internal/models"
)

// Seller names and fees of the two simulated sellers.
const (
	SiteAName = "Global Mart"
	SiteBName = "Local Express"

	siteBShipping = 5.99
)

// float64 values carry at most 1074 fractional decimal digits, so formatting
// with this precision is exact.
const exactFloatDigits = 1074

// EvaluateDeal derives both seller quotes for p and marks the cheaper one.
// Site A sells at list price with free shipping. Site B applies the product
// discount and charges flat shipping. Ties go to site B. Discounts outside
// 0..100 are not validated.
//
// Site B's final price is rounded from the unrounded discounted price, so it
// can differ by a cent from BasePrice + ShippingCost.
func EvaluateDeal(p models.Product) models.DealComparison {
	siteA := models.SellerOption{
		SiteName:     SiteAName,
		BasePrice:    p.Price,
		ShippingCost: 0,
		FinalPrice:   p.Price,
	}

	// The conversion keeps the discount product rounded before shipping is added.
	base := float64(p.Price * (1 - p.DiscountPercentage/100))
	final := roundCents(base + siteBShipping)

	siteB := models.SellerOption{
		SiteName:     SiteBName,
		BasePrice:    roundCents(base),
		ShippingCost: siteBShipping,
		FinalPrice:   final,
	}

	best := models.SiteB
	if p.Price < final {
		best = models.SiteA
		siteA.IsBestDeal = true
	} else {
		siteB.IsBestDeal = true
	}

	return models.DealComparison{SiteA: siteA, SiteB: siteB, BestSite: best}
}

// roundCents rounds the exact binary value of v to two decimals with halves
// away from zero. 2.175 is stored just below the half and rounds to 2.17.
func roundCents(v float64) float64 {
	exact, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', exactFloatDigits, 64))
	if err != nil {
		return v
	}
	return exact.Round(2).InexactFloat64()
}
