package server

import (
	"time"

	"github.com/arturoeanton/go-word2vec-similarity/internal/handler"
	"github.com/arturoeanton/go-word2vec-similarity/internal/middleware"
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// Options configures the HTTP application.
type Options struct {
	AppName   string
	AccessLog bool                   // fiber access log lines on stdout
	Audit     middleware.AuditWriter // nil disables audit records
}

// NewApp builds the Fiber application serving /similarity and /health.
func NewApp(svc *service.SimilarityService, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
	}))
	if opts.Audit != nil {
		app.Use(middleware.AuditMiddleware(opts.Audit))
	}

	handler.NewHealthHandler(opts.AppName, svc).Register(app)
	handler.NewSimilarityHandler(svc).Register(app)

	return app
}
