package plans

import (
	"errors"
	"net/http"

	"dealspace-api/internal/domain/plans"
	"dealspace-api/internal/app/http/middleware"
	stripeinfra "dealspace-api/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler serves the plan catalog. The registry is injected; handlers never
// reach for process globals.
type Handler struct {
	registry *plans.Registry
	prices   stripeinfra.PriceFetcher
}

// NewHandler wires a handler. prices may be nil when no Stripe key is
// configured; price verification then answers 500.
func NewHandler(registry *plans.Registry, prices stripeinfra.PriceFetcher) *Handler {
	return &Handler{registry: registry, prices: prices}
}

func (h *Handler) ListPlans(c *gin.Context) {
	list := h.registry.List()
	out := make([]PlanDTO, 0, len(list))
	for _, p := range list {
		out = append(out, BuildPlanDTO(p))
	}

	c.JSON(http.StatusOK, CatalogResponse{
		Catalog: h.registry.Catalog(),
		Plans:   out,
	})
}

func (h *Handler) GetPlan(c *gin.Context) {
	key, ok := plans.ParseKey(c.Param("key"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	p, err := h.registry.Lookup(key)
	if errors.Is(err, plans.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, BuildPlanDTO(p))
}

func (h *Handler) VerifyPrices(c *gin.Context) {
	if h.prices == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	report := stripeinfra.VerifyPrices(c.Request.Context(), h.registry, h.prices)
	log.Info().
		Str("sub", c.GetString(middleware.SubjectKey)).
		Str("catalog", report.Catalog).
		Bool("ok", report.OK()).
		Msg("stripe prices verified")

	status := http.StatusOK
	if report.FetchFailed() {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"ok":      report.OK(),
		"catalog": report.Catalog,
		"checks":  report.Checks,
	})
}
