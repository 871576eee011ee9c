package plans

import "dealspace-api/internal/domain/plans"

type CatalogResponse struct {
	Catalog string    `json:"catalog"`
	Plans   []PlanDTO `json:"plans"`
}

type PlanDTO struct {
	Key             string       `json:"key"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	Price           float64      `json:"price"`
	Currency        string       `json:"currency"`
	Interval        string       `json:"interval"`
	StripePriceID   *string      `json:"stripe_price_id"`
	CheckoutEnabled bool         `json:"checkout_enabled"`
	Features        []string     `json:"features"`
	Limits          plans.Limits `json:"limits"` // null = unlimited
}

func BuildPlanDTO(p plans.Plan) PlanDTO {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	limits := p.Limits
	if limits == nil {
		limits = plans.Limits{}
	}
	return PlanDTO{
		Key:             string(p.Key),
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price(),
		Currency:        p.Currency,
		Interval:        "month",
		StripePriceID:   p.StripePriceID,
		CheckoutEnabled: p.Purchasable(),
		Features:        features,
		Limits:          limits,
	}
}
