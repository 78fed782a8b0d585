// Package router wires the HTTP routes of the API.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "paisable/internal/feature/auth/transport/handler"
	"paisable/internal/platform/http/handler"
	jwtmw "paisable/internal/platform/jwt"
)

// NewRouter builds the gin engine. An empty corsOrigins allows every origin.
func NewRouter(authHandler *authhandler.AuthHandler, verifier jwtmw.Verifier,
	checks map[string]handler.CheckFunc, corsOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(corsOrigins)))

	// Probes
	r.Match([]string{http.MethodGet, http.MethodHead, http.MethodOptions}, "/healthz", handler.Health)
	r.GET("/readyz", handler.Readiness(checks))

	api := r.Group("/api/auth")
	{
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)

		// Bearer token required
		api.GET("/me", jwtmw.AuthRequired(verifier), authHandler.Me)
	}

	return r
}

// corsConfig lets the SPA send the Authorization header from the allowed origins.
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AddAllowHeaders("Authorization")
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
