package routes

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"akademikku_backend/internals/configs"
	database "akademikku_backend/internals/databases"
)

func BaseRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Akademikku BFF aktif 🚀")
	})

	// /health: upstream wajib dikonfigurasi; DB & Redis opsional (fallback in-memory / tanpa cache)
	app.Get("/health", func(c *fiber.Ctx) error {
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		upstream := "Configured"
		if configs.APIBaseURL == "" {
			upstream = "API_BASE_URL belum diset"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		dbStatus := "Disabled (in-memory)"
		if database.DB != nil {
			dbStatus = "Connected"
			if err := database.Ping(); err != nil {
				dbStatus = "Database connection error"
				serverStatus = "DEGRADED"
				if httpStatus == fiber.StatusOK {
					httpStatus = fiber.StatusServiceUnavailable
				}
			}
		}

		redisStatus := "Disabled"
		if configs.RDB != nil {
			redisStatus = "Connected"
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := configs.RDB.Ping(ctx).Err(); err != nil {
				// cache bukan jalur kritis
				redisStatus = "Redis connection error"
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"upstream":       upstream,
			"database":       dbStatus,
			"redis":          redisStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
