package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	reports := api.Group("", handler.AuthRequired)
	reports.Get("/goals/adherence", handler.GetGoalAdherence)
	reports.Get("/macros/distribution", handler.GetMacroDistribution)
	reports.Get("/hydration", handler.GetHydration)
	reports.Get("/foods/top", handler.GetTopFoods)
	reports.Get("/body/biometrics", handler.GetBodyComposition)
}
