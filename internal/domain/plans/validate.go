package plans

import (
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ErrInvalidCatalog = errors.New("invalid plan catalog")

// Display strings are rendered by the frontends as-is.
var textPolicy = bluemonday.StrictPolicy()

// Validate checks the data-integrity rules every catalog must satisfy and
// returns all violations joined. ps must already be in tier order.
func Validate(ps []Plan) error {
	if len(ps) == 0 {
		return errors.New("catalog has no plans")
	}

	var errs []error
	seen := make(map[Key]bool, len(ps))
	priceOwners := make(map[string]Key)
	prevRank := -1

	for _, p := range ps {
		rank := Rank(p.Key)
		if rank < 0 {
			errs = append(errs, fmt.Errorf("plan %q: unknown plan key", p.Key))
			continue
		}
		if seen[p.Key] {
			errs = append(errs, fmt.Errorf("plan %q: defined more than once", p.Key))
			continue
		}
		seen[p.Key] = true

		if rank < prevRank {
			errs = append(errs, fmt.Errorf("plan %q: out of tier order", p.Key))
		}
		prevRank = rank

		errs = append(errs, validatePlan(p)...)

		if p.StripePriceID != nil {
			if owner, dup := priceOwners[*p.StripePriceID]; dup {
				errs = append(errs, fmt.Errorf("plan %q: stripe price id %q already used by %q", p.Key, *p.StripePriceID, owner))
			} else {
				priceOwners[*p.StripePriceID] = p.Key
			}
		}
	}

	errs = append(errs, checkDistinctFromFree(ps)...)
	errs = append(errs, checkMonotoneLimits(ps)...)

	return errors.Join(errs...)
}

func validatePlan(p Plan) []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("plan %q: name is empty", p.Key))
	}
	if p.PriceCents < 0 {
		errs = append(errs, fmt.Errorf("plan %q: negative price %d", p.Key, p.PriceCents))
	}
	if p.Key == KeyFree && p.PriceCents != 0 {
		errs = append(errs, fmt.Errorf("plan %q: free plan must cost 0", p.Key))
	}
	if p.Key != KeyFree && p.PriceCents <= 0 {
		errs = append(errs, fmt.Errorf("plan %q: paid plan must have a positive price", p.Key))
	}
	if p.Key != KeyFree && p.StripePriceEnv == "" {
		errs = append(errs, fmt.Errorf("plan %q: paid plan has no price reference variable", p.Key))
	}
	if strings.TrimSpace(p.Currency) == "" {
		errs = append(errs, fmt.Errorf("plan %q: currency is empty", p.Key))
	}

	for r, l := range p.Limits {
		if n, ok := l.Value(); ok && n <= 0 {
			errs = append(errs, fmt.Errorf("plan %q: limit %s must be positive or unlimited, got %d", p.Key, r, n))
		}
	}

	texts := append([]string{p.Name, p.Description}, p.Features...)
	for _, s := range texts {
		if !isPlainText(s) {
			errs = append(errs, fmt.Errorf("plan %q: display text contains markup: %q", p.Key, s))
		}
	}
	for i, f := range p.Features {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, fmt.Errorf("plan %q: feature %d is empty", p.Key, i))
		}
	}

	return errs
}

func isPlainText(s string) bool {
	return html.UnescapeString(textPolicy.Sanitize(s)) == s
}

// checkDistinctFromFree rejects paid tiers that grant exactly what free does.
func checkDistinctFromFree(ps []Plan) []error {
	var free *Plan
	for i := range ps {
		if ps[i].Key == KeyFree {
			free = &ps[i]
			break
		}
	}
	if free == nil {
		return nil
	}

	var errs []error
	for _, p := range ps {
		if p.Key == KeyFree {
			continue
		}
		if p.Limits.equal(free.Limits) && slices.Equal(p.Features, free.Features) {
			errs = append(errs, fmt.Errorf("plan %q: identical limits and features to %q", p.Key, KeyFree))
		}
	}
	return errs
}

// checkMonotoneLimits requires every resource shared by two tiers to be at
// least as generous in the higher one.
func checkMonotoneLimits(ps []Plan) []error {
	var errs []error
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			lo, hi := ps[i], ps[j]
			if Compare(lo.Key, hi.Key) >= 0 {
				continue
			}
			for r, lower := range lo.Limits {
				higher, ok := hi.Limits[r]
				if !ok {
					continue
				}
				if !higher.AtLeast(lower) {
					errs = append(errs, fmt.Errorf("limit %s: %q (%s) is below %q (%s)", r, hi.Key, higher, lo.Key, lower))
				}
			}
		}
	}
	return errs
}
