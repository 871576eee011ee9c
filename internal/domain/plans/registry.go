package plans

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrPlanNotFound   = errors.New("plan not found")
	ErrMissingPriceID = errors.New("missing stripe price id")
)

// LookupFunc reads one environment variable; it has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Options tune Load.
type Options struct {
	// RequirePriceIDs turns an unresolved price reference on a paid plan into
	// a load error instead of disabling checkout for that plan.
	RequirePriceIDs bool
}

// Registry is the resolved, validated plan catalog. It is built once by Load
// and never mutated, so it can be shared across goroutines without locking.
type Registry struct {
	catalog string
	plans   []Plan
	byKey   map[Key]int
	byPrice map[string]int
}

// Load resolves the price references of c through lookup (os.LookupEnv when
// nil) and validates the result.
func Load(c Catalog, lookup LookupFunc, opts Options) (*Registry, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	resolved := make([]Plan, 0, len(c.Plans))
	var missing []error

	for _, def := range c.Plans {
		p := def.clone()
		p.StripePriceID = nil

		if p.StripePriceEnv != "" {
			if v, ok := lookup(p.StripePriceEnv); ok && strings.TrimSpace(v) != "" {
				id := strings.TrimSpace(v)
				p.StripePriceID = &id
			}
		}

		if p.StripePriceID == nil && !p.IsFree() {
			if opts.RequirePriceIDs {
				missing = append(missing, fmt.Errorf("%w: plan %q needs %s", ErrMissingPriceID, p.Key, p.StripePriceEnv))
			} else {
				log.Warn().
					Str("catalog", c.Name).
					Str("plan", string(p.Key)).
					Str("env", p.StripePriceEnv).
					Msg("price reference not set, checkout disabled for plan")
			}
		}

		resolved = append(resolved, p)
	}

	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	if err := Validate(resolved); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidCatalog, c.Name, err)
	}

	r := &Registry{
		catalog: c.Name,
		plans:   resolved,
		byKey:   make(map[Key]int, len(resolved)),
		byPrice: make(map[string]int, len(resolved)),
	}
	for i, p := range resolved {
		r.byKey[p.Key] = i
		if p.StripePriceID != nil {
			r.byPrice[*p.StripePriceID] = i
		}
	}

	log.Info().
		Str("catalog", c.Name).
		Int("plans", len(resolved)).
		Int("purchasable", len(r.Purchasable())).
		Msg("plan catalog loaded")

	return r, nil
}

// Catalog returns the name of the catalog the registry was loaded from.
func (r *Registry) Catalog() string { return r.catalog }

// Lookup returns the plan for key. Unknown keys yield ErrPlanNotFound; there
// is no fallback plan.
func (r *Registry) Lookup(key Key) (Plan, error) {
	i, ok := r.byKey[key]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrPlanNotFound, key)
	}
	return r.plans[i].clone(), nil
}

// ByStripePriceID returns the plan whose resolved price reference is id.
func (r *Registry) ByStripePriceID(id string) (Plan, error) {
	i, ok := r.byPrice[id]
	if !ok {
		return Plan{}, fmt.Errorf("%w: no plan for stripe price %q", ErrPlanNotFound, id)
	}
	return r.plans[i].clone(), nil
}

// List returns every plan in tier order.
func (r *Registry) List() []Plan {
	out := make([]Plan, len(r.plans))
	for i, p := range r.plans {
		out[i] = p.clone()
	}
	return out
}

// Keys returns the plan keys in tier order.
func (r *Registry) Keys() []Key {
	out := make([]Key, len(r.plans))
	for i, p := range r.plans {
		out[i] = p.Key
	}
	return out
}

// Purchasable returns the plans that can be checked out.
func (r *Registry) Purchasable() []Plan {
	var out []Plan
	for _, p := range r.plans {
		if p.Purchasable() {
			out = append(out, p.clone())
		}
	}
	return out
}
