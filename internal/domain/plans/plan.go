package plans

import (
	"maps"
	"slices"
)

// Plan is one subscription tier. Prices are monthly and held in minor units
// (cents).
type Plan struct {
	Key         Key
	Name        string
	Description string
	PriceCents  int64
	Currency    string

	// StripePriceEnv is the environment variable holding the Stripe price id.
	// Empty for plans that are never sold.
	StripePriceEnv string
	// StripePriceID is resolved from StripePriceEnv at load time; nil when unset.
	StripePriceID *string

	Features []string
	Limits   Limits
}

// Price returns the monthly price in major units.
func (p Plan) Price() float64 {
	return float64(p.PriceCents) / 100.0
}

func (p Plan) IsFree() bool { return p.PriceCents == 0 }

// Purchasable reports whether checkout can be offered: the plan costs
// something and its price reference resolved.
func (p Plan) Purchasable() bool {
	return !p.IsFree() && p.StripePriceID != nil
}

// Limit returns the limit for r. ok is false when the plan does not declare r.
func (p Plan) Limit(r Resource) (Limit, bool) {
	l, ok := p.Limits[r]
	return l, ok
}

// clone returns a deep copy so registry state never leaks to callers.
func (p Plan) clone() Plan {
	out := p
	out.Features = slices.Clone(p.Features)
	out.Limits = maps.Clone(p.Limits)
	if p.StripePriceID != nil {
		id := *p.StripePriceID
		out.StripePriceID = &id
	}
	return out
}
