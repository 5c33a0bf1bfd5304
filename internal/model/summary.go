package model

// CommonSpecs holds the mode (most frequent) value of each spec field across
// a phone's listings, used as the phone's representative configuration.
type CommonSpecs struct {
	RAM         string `json:"ram"`
	Storage     string `json:"storage"`
	Battery     string `json:"battery"`
	CameraPixel string `json:"cameraPixel"`
	Network     string `json:"network"`
	Condition   string `json:"condition"`
}

// PhoneSummary is the pre-aggregated market snapshot for one phone model.
// It is the input to the comparison scorer and must be treated as immutable.
type PhoneSummary struct {
	Brand        string      `json:"brand"`
	Model        string      `json:"model"`
	AvgPrice     int         `json:"avgPrice"`
	MinPrice     int         `json:"minPrice"`
	MaxPrice     int         `json:"maxPrice"`
	ListingCount int         `json:"listingCount"`
	MarketScore  float64     `json:"marketScore"`
	Listings     []Listing   `json:"listings"`
	CommonSpecs  CommonSpecs `json:"commonSpecs"`
}

// Name returns the display name for the phone.
func (p *PhoneSummary) Name() string {
	return p.Brand + " " + p.Model
}

// GreatDeals counts listings tagged as great deals.
func (p *PhoneSummary) GreatDeals() int {
	n := 0
	for i := range p.Listings {
		if p.Listings[i].DealType == DealGreat {
			n++
		}
	}
	return n
}

// WarrantyPct returns the percentage of listings carrying the warranty badge.
// An empty listing set yields 0, never a division error.
func (p *PhoneSummary) WarrantyPct() float64 {
	if len(p.Listings) == 0 {
		return 0
	}
	n := 0
	for i := range p.Listings {
		for _, b := range p.Listings[i].TrustBadges {
			if b == BadgeWarranty {
				n++
				break
			}
		}
	}
	return float64(n) / float64(len(p.Listings)) * 100
}
