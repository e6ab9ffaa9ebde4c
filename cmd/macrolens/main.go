package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/macrolens/macrolens/internal/api"
	"github.com/macrolens/macrolens/internal/config"
	"github.com/macrolens/macrolens/internal/db"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	location := mustLoadLocation(cfg.Timezone)
	time.Local = location

	database, err := openDatabase(cfg.DB)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	handler := api.NewHandler(database, cfg.SecretKey, location, cfg.CookieSecure)

	app := fiber.New(fiber.Config{
		AppName:               "MacroLens",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("MacroLens listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, cfg.DB.Driver, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func openDatabase(cfg config.DBConfig) (*gorm.DB, error) {
	if cfg.Driver == config.DriverPostgres {
		return db.OpenPostgres(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	}
	return db.OpenSQLite(cfg.Path)
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
