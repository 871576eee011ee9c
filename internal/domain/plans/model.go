package plans

import "time"

// Record is the database mirror of a resolved plan. The registry stays the
// source of truth; rows exist so billing tables can join on plan_key.
type Record struct {
	PlanKey       string `gorm:"column:plan_key;primaryKey"`
	Catalog       string `gorm:"column:catalog;not null"`
	TierRank      int    `gorm:"column:tier_rank;not null"`
	Name          string `gorm:"not null"`
	Description   string
	PriceCents    int64    `gorm:"column:price_cents;not null"`
	Currency      string   `gorm:"type:varchar(3);not null"`
	StripePriceID *string  `gorm:"column:stripe_price_id;uniqueIndex:idx_plan_catalog_stripe_price_id"`
	Features      []string `gorm:"serializer:json"`
	Limits        Limits   `gorm:"serializer:json"`
	UpdatedAt     time.Time
}

func (Record) TableName() string { return "plan_catalog" }

// Records converts the registry into rows, in tier order.
func (r *Registry) Records() []Record {
	out := make([]Record, 0, len(r.plans))
	for _, p := range r.List() {
		out = append(out, Record{
			PlanKey:       string(p.Key),
			Catalog:       r.catalog,
			TierRank:      Rank(p.Key),
			Name:          p.Name,
			Description:   p.Description,
			PriceCents:    p.PriceCents,
			Currency:      p.Currency,
			StripePriceID: p.StripePriceID,
			Features:      p.Features,
			Limits:        p.Limits,
		})
	}
	return out
}
