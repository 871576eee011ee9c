package main

import (
	"context"
	"os"
	"time"

	"dealspace-api/config"
	"dealspace-api/database"
	plansapi "dealspace-api/internal/api/plans"
	routes "dealspace-api/internal/app/http"
	"dealspace-api/internal/domain/plans"
	stripeinfra "dealspace-api/internal/infra/stripe"
	"dealspace-api/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	catalog, err := plans.CatalogByName(cfg.PlanCatalog)
	if err != nil {
		log.Fatal().Err(err).Msg("PLAN_CATALOG must name a catalog")
	}

	// Production refuses to start with a paid plan that cannot be sold.
	registry, err := plans.Load(catalog, os.LookupEnv, plans.Options{RequirePriceIDs: cfg.IsProduction()})
	if err != nil {
		log.Fatal().Err(err).Str("catalog", catalog.Name).Msg("failed to load plan catalog")
	}

	if cfg.DBURL != "" {
		db, err := database.Open(cfg.DBURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = database.SyncCatalog(ctx, db, registry)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to sync plan catalog")
		}
	} else {
		log.Info().Msg("DB_URL not set, skipping plan catalog sync")
	}

	var prices stripeinfra.PriceFetcher
	if cfg.StripeSecretKey != "" {
		prices = stripeinfra.NewPriceClient(cfg.StripeSecretKey)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Plans:     plansapi.NewHandler(registry, prices),
		JWTSecret: cfg.JWTSecret,
	})

	log.Info().Str("port", cfg.Port).Str("catalog", registry.Catalog()).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
