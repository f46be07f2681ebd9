package api

import (
	"errors"

	"ustva-extractor/docs"
	"ustva-extractor/internal/api/handlers"
	"ustva-extractor/pkg/config"
	"ustva-extractor/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Ingest   *handlers.IngestHandler
	Feedback *handlers.FeedbackHandler
	Receipt  *handlers.ReceiptHandler
	Health   *handlers.HealthHandler
}

func SetupRouter(h Handlers, cfg *config.ServerConfig, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ustva-extractor",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Error("Request failed",
					zap.String("path", c.Path()),
					zap.Any("request_id", c.Locals("requestid")),
					zap.Error(err),
				)
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,X-Request-ID,X-Tenant-ID,X-User-ID",
		ExposeHeaders: "X-Request-ID,Content-Disposition",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.Tenant(appLogger))

	// Swagger - importing docs registers the swagger document in init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	withTimeout := func(handler fiber.Handler) fiber.Handler {
		if cfg.RequestTimeout <= 0 {
			return handler
		}
		return timeout.NewWithContext(handler, cfg.RequestTimeout)
	}

	app.Get("/healthz", h.Health.Health)

	app.Post("/ingest", withTimeout(h.Ingest.Ingest))
	app.Post("/ocr/parse", withTimeout(h.Ingest.ParseText))
	app.Post("/feedback", withTimeout(h.Feedback.Submit))

	receipts := app.Group("/receipts")
	receipts.Get("/recent", withTimeout(h.Receipt.Recent))
	receipts.Get("/count", withTimeout(h.Receipt.Count))
	receipts.Get("/export", withTimeout(h.Receipt.Export))

	return app
}
