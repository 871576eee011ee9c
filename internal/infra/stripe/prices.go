package stripe

import (
	"context"
	"fmt"
	"strings"

	"dealspace-api/internal/domain/plans"

	"github.com/rs/zerolog/log"
	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
)

// PriceFetcher retrieves a single Stripe price. *price.Client satisfies it.
type PriceFetcher interface {
	Get(id string, params *stripego.PriceParams) (*stripego.Price, error)
}

// NewPriceClient returns a price client bound to key instead of the
// package-level stripe.Key.
func NewPriceClient(key string) *price.Client {
	return &price.Client{B: stripego.GetBackend(stripego.APIBackend), Key: key}
}

type CheckStatus string

const (
	StatusOK               CheckStatus = "ok"
	StatusMismatch         CheckStatus = "mismatch"
	StatusError            CheckStatus = "error"
	StatusCheckoutDisabled CheckStatus = "checkout_disabled"
)

type PlanCheck struct {
	Plan    plans.Key   `json:"plan"`
	PriceID string      `json:"price_id,omitempty"`
	Status  CheckStatus `json:"status"`
	Issues  []string    `json:"issues,omitempty"`
}

type Report struct {
	Catalog string      `json:"catalog"`
	Checks  []PlanCheck `json:"checks"`
}

// OK reports whether every referenced price matched its plan.
func (r Report) OK() bool {
	for _, c := range r.Checks {
		if c.Status == StatusMismatch || c.Status == StatusError {
			return false
		}
	}
	return true
}

// FetchFailed reports whether any price could not be retrieved at all.
func (r Report) FetchFailed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusError {
			return true
		}
	}
	return false
}

// VerifyPrices compares every paid plan against the Stripe price it
// references. Free plans are skipped; paid plans without a reference are
// reported as checkout_disabled.
func VerifyPrices(ctx context.Context, reg *plans.Registry, fetcher PriceFetcher) Report {
	report := Report{Catalog: reg.Catalog()}

	for _, p := range reg.List() {
		if p.IsFree() {
			continue
		}
		if p.StripePriceID == nil {
			report.Checks = append(report.Checks, PlanCheck{
				Plan:   p.Key,
				Status: StatusCheckoutDisabled,
				Issues: []string{p.StripePriceEnv + " is not set"},
			})
			continue
		}

		check := PlanCheck{Plan: p.Key, PriceID: *p.StripePriceID}

		params := &stripego.PriceParams{}
		params.Context = ctx
		params.AddExpand("product")

		sp, err := fetcher.Get(*p.StripePriceID, params)
		if err != nil {
			log.Error().Err(err).
				Str("plan", string(p.Key)).
				Str("price_id", *p.StripePriceID).
				Msg("failed to fetch stripe price")
			check.Status = StatusError
			check.Issues = []string{err.Error()}
			report.Checks = append(report.Checks, check)
			continue
		}

		check.Issues = compare(p, sp)
		check.Status = StatusOK
		if len(check.Issues) > 0 {
			check.Status = StatusMismatch
			log.Warn().
				Str("plan", string(p.Key)).
				Str("price_id", *p.StripePriceID).
				Strs("issues", check.Issues).
				Msg("stripe price does not match plan")
		}
		report.Checks = append(report.Checks, check)
	}

	return report
}

func compare(p plans.Plan, sp *stripego.Price) []string {
	var issues []string

	if !sp.Active {
		issues = append(issues, "price is inactive")
	}
	if sp.Product != nil && sp.Product.ID != "" && !sp.Product.Active {
		issues = append(issues, fmt.Sprintf("product %s is inactive", sp.Product.ID))
	}

	if sp.Type != stripego.PriceTypeRecurring || sp.Recurring == nil {
		issues = append(issues, "price is not recurring")
	} else {
		if sp.Recurring.Interval != stripego.PriceRecurringIntervalMonth {
			issues = append(issues, fmt.Sprintf("billing interval is %s, want month", sp.Recurring.Interval))
		}
		if sp.Recurring.IntervalCount > 1 {
			issues = append(issues, fmt.Sprintf("billed every %d months, want every month", sp.Recurring.IntervalCount))
		}
	}

	if !strings.EqualFold(string(sp.Currency), p.Currency) {
		issues = append(issues, fmt.Sprintf("currency is %s, want %s", sp.Currency, p.Currency))
	}
	if sp.UnitAmount != p.PriceCents {
		issues = append(issues, fmt.Sprintf("unit amount is %d, want %d", sp.UnitAmount, p.PriceCents))
	}

	return issues
}
