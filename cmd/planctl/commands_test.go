package main

import (
	"bytes"
	"errors"
	"testing"

	"dealspace-api/internal/domain/plans"
	stripeinfra "dealspace-api/internal/infra/stripe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v75"
)

type stubFetcher map[string]*stripego.Price

func (s stubFetcher) Get(id string, _ *stripego.PriceParams) (*stripego.Price, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, errors.New("no such price")
}

func run(t *testing.T, env map[string]string, fetcher stripeinfra.PriceFetcher, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PLAN_CATALOG", "")
	t.Setenv("STRIPE_SECRET_KEY", "")

	var out bytes.Buffer
	app := newApp(cliEnv{
		out: &out,
		lookup: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		newFetcher: func(string) stripeinfra.PriceFetcher { return fetcher },
	})
	err := app.Run(append([]string{"planctl"}, args...))
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := run(t, map[string]string{plans.EnvProPriceID: "price_pro"}, nil, "--catalog", "plans", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "free")
	assert.Contains(t, out, "24.99 USD")
	assert.Contains(t, out, "contacts=50 deals=unlimited users=15")
	assert.Regexp(t, `pro\s+Pro\s+99\.99 USD\s+enabled`, out)
	assert.Regexp(t, `basic\s+Basic\s+24\.99 USD\s+disabled`, out)
}

func TestShowCommand(t *testing.T) {
	out, err := run(t, nil, nil, "--catalog", "subscriptions", "show", "Enterprise")
	require.NoError(t, err)

	assert.Contains(t, out, "Enterprise Plan (enterprise)")
	assert.Contains(t, out, "Price:    99.99 USD / month")
	assert.Contains(t, out, "Price id: unset (STRIPE_ENTERPRISE_PRICE_ID)")
	assert.Contains(t, out, "  - SLA guarantee")

	_, err = run(t, nil, nil, "--catalog", "subscriptions", "show", "gold")
	assert.ErrorIs(t, err, plans.ErrPlanNotFound)

	_, err = run(t, nil, nil, "--catalog", "subscriptions", "show")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, nil, nil, "validate", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog plans is valid")
	assert.Contains(t, out, "catalog subscriptions is valid")

	out, err = run(t, nil, nil, "--catalog", "plans", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog plans is valid (4 plans, 0 purchasable)")

	_, err = run(t, nil, nil, "--catalog", "plans", "--strict", "validate")
	assert.ErrorIs(t, err, plans.ErrMissingPriceID)
}

func TestCatalogSelectionRequired(t *testing.T) {
	_, err := run(t, nil, nil, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog selected")

	_, err = run(t, nil, nil, "--catalog", "legacy", "list")
	assert.ErrorIs(t, err, plans.ErrUnknownCatalog)
}

func TestVerifyPricesCommand(t *testing.T) {
	env := map[string]string{plans.EnvBasicPriceID: "price_basic"}
	good := stubFetcher{"price_basic": {
		ID:         "price_basic",
		Active:     true,
		Currency:   stripego.CurrencyUSD,
		UnitAmount: 2499,
		Type:       stripego.PriceTypeRecurring,
		Recurring:  &stripego.PriceRecurring{Interval: stripego.PriceRecurringIntervalMonth, IntervalCount: 1},
	}}

	_, err := run(t, env, good, "--catalog", "plans", "verify-prices")
	require.Error(t, err, "stripe key required")
	assert.Contains(t, err.Error(), "stripe key not configured")

	out, err := run(t, env, good, "--catalog", "plans", "verify-prices", "--stripe-key", "sk_test")
	require.NoError(t, err)
	assert.Regexp(t, `basic\s+price_basic\s+ok`, out)
	assert.Regexp(t, `pro\s+-\s+checkout_disabled`, out)

	out, err = run(t, env, stubFetcher{}, "--catalog", "plans", "verify-prices", "--stripe-key", "sk_test")
	require.Error(t, err)
	assert.Regexp(t, `basic\s+price_basic\s+error\s+no such price`, out)
}
