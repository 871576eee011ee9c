package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"dealspace-api/internal/domain/plans"
	stripeinfra "dealspace-api/internal/infra/stripe"

	"github.com/urfave/cli/v2"
)

type cliEnv struct {
	out        io.Writer
	lookup     plans.LookupFunc
	newFetcher func(key string) stripeinfra.PriceFetcher
}

func newStripeFetcher(key string) stripeinfra.PriceFetcher {
	return stripeinfra.NewPriceClient(key)
}

func newApp(env cliEnv) *cli.App {
	return &cli.App{
		Name:    "planctl",
		Usage:   "Inspect and verify DealSpace plan catalogs",
		Version: version,
		Writer:  env.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Catalog to load (plans or subscriptions)",
				EnvVars: []string{"PLAN_CATALOG"},
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when a paid plan has no Stripe price id",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List plans in tier order",
				Action: env.runList,
			},
			{
				Name:      "show",
				Usage:     "Show one plan",
				ArgsUsage: "KEY",
				Action:    env.runShow,
			},
			{
				Name:  "validate",
				Usage: "Validate the selected catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Validate every shipped catalog without resolving price ids",
					},
				},
				Action: env.runValidate,
			},
			{
				Name:  "verify-prices",
				Usage: "Compare plans with their Stripe prices",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "stripe-key",
						Usage:   "Stripe secret key",
						EnvVars: []string{"STRIPE_SECRET_KEY"},
					},
				},
				Action: env.runVerifyPrices,
			},
		},
	}
}

func (e cliEnv) load(c *cli.Context) (*plans.Registry, error) {
	name := c.String("catalog")
	if name == "" {
		return nil, errors.New("no catalog selected: pass --catalog or set PLAN_CATALOG")
	}
	catalog, err := plans.CatalogByName(name)
	if err != nil {
		return nil, err
	}
	return plans.Load(catalog, e.lookup, plans.Options{RequirePriceIDs: c.Bool("strict")})
}

func (e cliEnv) runList(c *cli.Context) error {
	reg, err := e.load(c)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tPRICE\tCHECKOUT\tLIMITS")
	for _, p := range reg.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Key, p.Name, formatPrice(p), checkoutState(p), formatLimits(p.Limits))
	}
	return w.Flush()
}

func (e cliEnv) runShow(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("show takes exactly one plan key")
	}
	reg, err := e.load(c)
	if err != nil {
		return err
	}

	key, _ := plans.ParseKey(c.Args().First())
	p, err := reg.Lookup(key)
	if err != nil {
		return fmt.Errorf("%w: %q", plans.ErrPlanNotFound, c.Args().First())
	}

	fmt.Fprintf(e.out, "%s (%s)\n", p.Name, p.Key)
	if p.Description != "" {
		fmt.Fprintf(e.out, "  %s\n", p.Description)
	}
	fmt.Fprintf(e.out, "Price:    %s / month\n", formatPrice(p))
	fmt.Fprintf(e.out, "Checkout: %s\n", checkoutState(p))
	if p.StripePriceID != nil {
		fmt.Fprintf(e.out, "Price id: %s\n", *p.StripePriceID)
	} else if p.StripePriceEnv != "" {
		fmt.Fprintf(e.out, "Price id: unset (%s)\n", p.StripePriceEnv)
	}
	fmt.Fprintf(e.out, "Limits:   %s\n", formatLimits(p.Limits))
	fmt.Fprintln(e.out, "Features:")
	for _, f := range p.Features {
		fmt.Fprintf(e.out, "  - %s\n", f)
	}
	return nil
}

func (e cliEnv) runValidate(c *cli.Context) error {
	if c.Bool("all") {
		var errs []error
		for _, cat := range plans.Catalogs() {
			if err := plans.Validate(cat.Plans); err != nil {
				errs = append(errs, fmt.Errorf("catalog %q: %w", cat.Name, err))
				continue
			}
			fmt.Fprintf(e.out, "catalog %s is valid\n", cat.Name)
		}
		return errors.Join(errs...)
	}

	reg, err := e.load(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "catalog %s is valid (%d plans, %d purchasable)\n", reg.Catalog(), len(reg.Keys()), len(reg.Purchasable()))
	return nil
}

func (e cliEnv) runVerifyPrices(c *cli.Context) error {
	key := c.String("stripe-key")
	if key == "" {
		return errors.New("stripe key not configured: pass --stripe-key or set STRIPE_SECRET_KEY")
	}
	reg, err := e.load(c)
	if err != nil {
		return err
	}

	report := stripeinfra.VerifyPrices(c.Context, reg, e.newFetcher(key))

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAN\tPRICE ID\tSTATUS\tISSUES")
	for _, ch := range report.Checks {
		id := ch.PriceID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ch.Plan, id, ch.Status, strings.Join(ch.Issues, "; "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !report.OK() {
		return errors.New("stripe prices do not match the catalog")
	}
	return nil
}

func formatPrice(p plans.Plan) string {
	return fmt.Sprintf("%.2f %s", p.Price(), strings.ToUpper(p.Currency))
}

func checkoutState(p plans.Plan) string {
	switch {
	case p.IsFree():
		return "free"
	case p.Purchasable():
		return "enabled"
	default:
		return "disabled"
	}
}

func formatLimits(ls plans.Limits) string {
	keys := make([]string, 0, len(ls))
	for r := range ls {
		keys = append(keys, string(r))
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+ls[plans.Resource(k)].String())
	}
	return strings.Join(parts, " ")
}
