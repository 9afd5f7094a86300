// Package router sets up the HTTP API on top of the store, the ledger
// engine and the backup engine.
package router

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tallybook/backend/internal/backup"
	"github.com/tallybook/backend/internal/controllers/healthz"
	v1 "github.com/tallybook/backend/internal/controllers/v1"
	"github.com/tallybook/backend/internal/ledger"
	"github.com/tallybook/backend/internal/storage"
)

// Router sets up the router with all middlewares and routes.
func Router(store *storage.Store, service *ledger.Service, engine *backup.Engine) (*gin.Engine, error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(MetricsMiddleware())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, out io.Writer, latency time.Duration) zerolog.Logger {
			return log.Logger.With().
				Str("request-id", requestid.Get(c)).
				Dur("latency", latency).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("allowOrigins", allowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	r.OPTIONS("/healthz", healthz.Options)
	r.GET("/healthz", healthz.Get(store))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := r.Group("/v1")

	v1.RegisterAccountRoutes(apiV1.Group("/accounts"), store, service)
	v1.RegisterBookRoutes(apiV1.Group("/books"), store)
	v1.RegisterTransactionRoutes(apiV1.Group("/books/:bookId/transactions"), store, service)
	v1.RegisterRecurringRoutes(apiV1.Group("/books/:bookId/recurring"), store, service)
	v1.RegisterListRoutes(apiV1.Group("/books/:bookId/templates"), store, storage.Templates)

	v1.RegisterListRoutes(apiV1.Group("/categories"), store, storage.Categories)
	v1.RegisterListRoutes(apiV1.Group("/currencies"), store, storage.Currencies)
	v1.RegisterListRoutes(apiV1.Group("/match-rules"), store, storage.MatchRules)
	v1.RegisterListRoutes(apiV1.Group("/budgets"), store, storage.Budgets)
	v1.RegisterSavingsPlanRoutes(apiV1.Group("/savings-plans"), store)
	v1.RegisterListRoutes(apiV1.Group("/reminders"), store, storage.Reminders)

	v1.RegisterDocumentRoutes(apiV1.Group("/settings"), store, storage.Settings)
	v1.RegisterDocumentRoutes(apiV1.Group("/ai-config"), store, storage.AIConfig)

	v1.RegisterBackupRoutes(apiV1.Group("/backups"), store, engine)

	log.Info().Msg("backend startup complete")

	return r, nil
}
