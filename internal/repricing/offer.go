package repricing

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
)

const (
	defaultOfferLeadTimeDays = 5
	defaultOfferRating       = 4.5
)

// Offer is one competitor listing for the same product.
type Offer struct {
	SellerName   string  `json:"seller"`
	Price        float64 `json:"price"`
	LeadTimeDays float64 `json:"lead_time_days"`
	Rating       float64 `json:"rating"`
}

// UnmarshalJSON assumes a five day lead time and a 4.5 rating for sources
// that do not report them.
func (o *Offer) UnmarshalJSON(data []byte) error {
	type plain Offer
	out := plain{LeadTimeDays: defaultOfferLeadTimeDays, Rating: defaultOfferRating}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*o = Offer(out)
	return nil
}

// NormalizeOffers drops offers without a positive price and names anonymous
// sellers. A list holding only such offers reprices as no competition. The
// input slice is not modified.
func NormalizeOffers(offers []Offer) []Offer {
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if o.Price <= 0 {
			continue
		}
		o.SellerName = strings.TrimSpace(o.SellerName)
		if o.SellerName == "" {
			o.SellerName = "unknown"
		}
		out = append(out, o)
	}
	return out
}

// sortedByPrice returns a copy ordered by ascending price. Equal prices keep
// their input order.
func sortedByPrice(offers []Offer) []Offer {
	sorted := slices.Clone(offers)
	slices.SortStableFunc(sorted, func(a, b Offer) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return sorted
}
