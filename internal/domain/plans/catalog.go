package plans

import (
	"errors"
	"fmt"
	"strings"
)

// Environment variables carrying Stripe price ids for the paid plans.
const (
	EnvBasicPriceID      = "STRIPE_BASIC_PRICE_ID"
	EnvProPriceID        = "STRIPE_PRO_PRICE_ID"
	EnvEnterprisePriceID = "STRIPE_ENTERPRISE_PRICE_ID"
)

const defaultCurrency = "usd"

// Catalog names.
const (
	CatalogPlans         = "plans"
	CatalogSubscriptions = "subscriptions"
)

var ErrUnknownCatalog = errors.New("unknown plan catalog")

// Catalog is a named, ordered set of plan definitions before any environment
// resolution. StripePriceID is always nil in a catalog.
type Catalog struct {
	Name  string
	Plans []Plan
}

// Catalogs returns every catalog shipped with the service. The two disagree on
// prices, features and limits for the same keys; neither is the default and
// deployments must choose one by name.
func Catalogs() []Catalog {
	return []Catalog{PlansCatalog(), SubscriptionsCatalog()}
}

// CatalogByName returns the catalog called name.
func CatalogByName(name string) (Catalog, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Catalogs() {
		if c.Name == n {
			return c, nil
		}
	}
	return Catalog{}, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownCatalog, name, CatalogPlans, CatalogSubscriptions)
}

// PlansCatalog is the pricing-page catalog: team-size oriented, with
// descriptions and a flat deal limit.
func PlansCatalog() Catalog {
	return Catalog{
		Name: CatalogPlans,
		Plans: []Plan{
			{
				Key:         KeyFree,
				Name:        "Free",
				Description: "Perfect for trying out DealSpace",
				PriceCents:  0,
				Currency:    defaultCurrency,
				Features: []string{
					"Up to 5 users",
					"10 deals",
					"10 contacts",
				},
				Limits: Limits{
					ResourceUsers:    Cap(5),
					ResourceDeals:    Cap(10),
					ResourceContacts: Cap(10),
				},
			},
			{
				Key:            KeyBasic,
				Name:           "Basic",
				Description:    "Great for small teams",
				PriceCents:     2499,
				Currency:       defaultCurrency,
				StripePriceEnv: EnvBasicPriceID,
				Features: []string{
					"Up to 15 users",
					"Unlimited deals",
					"50 contacts",
					"Email & chat support",
				},
				Limits: Limits{
					ResourceUsers:    Cap(15),
					ResourceDeals:    Unlimited(),
					ResourceContacts: Cap(50),
				},
			},
			{
				Key:            KeyPro,
				Name:           "Pro",
				Description:    "For growing businesses",
				PriceCents:     9999,
				Currency:       defaultCurrency,
				StripePriceEnv: EnvProPriceID,
				Features: []string{
					"Up to 25 users",
					"Unlimited deals",
					"500 contacts",
				},
				Limits: Limits{
					ResourceUsers:    Cap(25),
					ResourceDeals:    Unlimited(),
					ResourceContacts: Cap(500),
				},
			},
			{
				Key:            KeyEnterprise,
				Name:           "Enterprise",
				Description:    "For large organizations",
				PriceCents:     19999,
				Currency:       defaultCurrency,
				StripePriceEnv: EnvEnterprisePriceID,
				Features: []string{
					"Unlimited users",
					"Unlimited everything",
					"Dedicated support",
				},
				Limits: Limits{
					ResourceUsers:    Unlimited(),
					ResourceDeals:    Unlimited(),
					ResourceContacts: Unlimited(),
				},
			},
		},
	}
}

// SubscriptionsCatalog is the billing catalog: monthly deal quota, cheaper
// tiers. Paid tier limits were absent in the original data and basic
// advertised fewer deals than free; they are set here so every resource
// escalates with the tier.
func SubscriptionsCatalog() Catalog {
	return Catalog{
		Name: CatalogSubscriptions,
		Plans: []Plan{
			{
				Key:        KeyFree,
				Name:       "Free",
				PriceCents: 0,
				Currency:   defaultCurrency,
				Features: []string{
					"Up to 10 deals per month",
					"Up to 100 contacts",
					"1 user",
					"Email support",
				},
				Limits: Limits{
					ResourceDealsPerMonth: Cap(10),
					ResourceContacts:      Cap(100),
					ResourceUsers:         Cap(1),
				},
			},
			{
				Key:            KeyBasic,
				Name:           "Basic Plan",
				PriceCents:     999,
				Currency:       defaultCurrency,
				StripePriceEnv: EnvBasicPriceID,
				Features: []string{
					"Up to 50 deals per month",
					"Up to 500 contacts",
					"Up to 3 users",
				},
				Limits: Limits{
					ResourceDealsPerMonth: Cap(50),
					ResourceContacts:      Cap(500),
					ResourceUsers:         Cap(3),
				},
			},
			{
				Key:            KeyPro,
				Name:           "Pro Plan",
				PriceCents:     2999,
				Currency:       defaultCurrency,
				StripePriceEnv: EnvProPriceID,
				Features: []string{
					"Unlimited deals",
					"Unlimited contacts",
					"Up to 10 users",
					"Advanced reporting & analytics",
					"Priority email & chat support",
					"Custom fields",
					"API access",
				},
				Limits: Limits{
					ResourceDealsPerMonth: Unlimited(),
					ResourceContacts:      Unlimited(),
					ResourceUsers:         Cap(10),
				},
			},
			{
				Key:            KeyEnterprise,
				Name:           "Enterprise Plan",
				PriceCents:     9999,
				Currency:       defaultCurrency,
				StripePriceEnv: EnvEnterprisePriceID,
				Features: []string{
					"Everything in Pro",
					"Unlimited users",
					"Advanced integrations",
					"SLA guarantee",
					"Custom training",
					"24/7 phone support",
				},
				Limits: Limits{
					ResourceDealsPerMonth: Unlimited(),
					ResourceContacts:      Unlimited(),
					ResourceUsers:         Unlimited(),
				},
			},
		},
	}
}
