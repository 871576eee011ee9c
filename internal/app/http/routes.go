package routes

import (
	plansapi "dealspace-api/internal/api/plans"
	"dealspace-api/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Plans *plansapi.Handler
	// JWTSecret guards /admin. Admin routes are not registered without it.
	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/plans", d.Plans.ListPlans)
	r.GET("/plans/:key", d.Plans.GetPlan)

	if d.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, admin routes disabled")
		return
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.RequireRole("admin"))
	admin.POST("/verify-prices", d.Plans.VerifyPrices)
}
