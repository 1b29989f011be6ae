// Package router assembles the Gin route table.
package router

import (
	"github.com/gin-gonic/gin"

	analysishandler "imagevault_backend/internal/feature/analysis/transport/handler"
	authhandler "imagevault_backend/internal/feature/auth/transport/handler"
	entryhandler "imagevault_backend/internal/feature/entries/transport/handler"
	jwtmw "imagevault_backend/internal/platform/jwt"
)

// NewRouter wires the handlers into the route table. Routes under the
// auth group require a valid bearer token.
func NewRouter(auth *authhandler.AuthHandler, entries *entryhandler.EntryHandler,
	analysis *analysishandler.AnalysisHandler, jwtSecret string) *gin.Engine {
	r := gin.Default()

	// No authentication required
	r.GET("/healthz", health)
	r.POST("/signup", auth.Signup)
	r.POST("/login", auth.Login)

	// Authenticated routes
	authed := r.Group("/")
	authed.Use(jwtmw.AuthRequired(jwtSecret))
	{
		authed.POST("/logout", auth.Logout)

		authed.GET("/entries", entries.List)
		authed.POST("/entries", entries.Create)
		authed.GET("/entries/search", entries.Search)
		authed.GET("/entries/:id", entries.Get)
		authed.PATCH("/entries/:id", entries.Update)
		authed.DELETE("/entries/:id", entries.Delete)

		authed.GET("/labels", entries.Labels)
		authed.GET("/stats", entries.Stats)

		authed.POST("/analysis/image", analysis.AnalyzeImage)
		authed.POST("/analysis/link", analysis.SummarizeLink)
	}

	return r
}

// health answers liveness probes without caching.
func health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case "HEAD":
		c.Status(200)
	case "OPTIONS":
		c.Status(204)
	default:
		c.JSON(200, gin.H{"status": "ok"})
	}
}
