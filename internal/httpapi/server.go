package httpapi

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"meal-planner/internal/metrics"
)

// Config carries what the API needs besides the service.
type Config struct {
	JWTSecret []byte
	// DataPath is reported by /health as the data directory size.
	DataPath string
	// AccessLog receives one line per request; nil disables access logging.
	AccessLog io.Writer
}

// NewServer builds the fiber app serving the shopping-list API.
func NewServer(service ShoppingService, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "meal-planner",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if cfg.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			Output:     cfg.AccessLog,
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"system": metrics.GetSysHealth(cfg.DataPath),
		})
	})

	h := newShoppingHandler(service, NewValidator())

	lists := app.Group("/api/v1/shopping-lists", AuthMiddleware(cfg.JWTSecret))
	{
		lists.Get("/:start", h.GetList)
		lists.Post("/:start/items", h.AddItem)
		lists.Put("/:start/items/:id/check", h.ToggleItem)
		lists.Delete("/:start/items/:id", h.RemoveItem)
		lists.Post("/:start/prune", h.Prune)
	}

	return app
}
