package models

// Seller site identifiers used in DealComparison.BestSite.
const (
	SiteA = "siteA"
	SiteB = "siteB"
)

// SellerOption is a derived quote for a product from one simulated seller.
type SellerOption struct {
	SiteName     string  `json:"siteName"`
	BasePrice    float64 `json:"basePrice"`
	ShippingCost float64 `json:"shippingCost"`
	FinalPrice   float64 `json:"finalPrice"`
	IsBestDeal   bool    `json:"isBestDeal"`
}

// DealComparison holds both seller quotes and which one wins.
type DealComparison struct {
	SiteA    SellerOption `json:"siteA"`
	SiteB    SellerOption `json:"siteB"`
	BestSite string       `json:"bestSite"`
}

// Best returns the winning option.
func (d DealComparison) Best() SellerOption {
	if d.BestSite == SiteA {
		return d.SiteA
	}
	return d.SiteB
}

// ProductDeal pairs a product with its computed deal.
type ProductDeal struct {
	Product Product        `json:"product"`
	Deal    DealComparison `json:"deal"`
}
