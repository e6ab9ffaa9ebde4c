package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/macrolens/macrolens/internal/observability"
	"github.com/macrolens/macrolens/internal/services"
)

func parseReportQuery(c *fiber.Ctx) services.ReportQuery {
	query := services.ReportQuery{
		GroupBy: c.Query("groupBy"),
		UserID:  strings.TrimSpace(c.Query("userId")),
	}
	if raw := strings.TrimSpace(c.Query("range")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			query.RangeDays = &parsed
		}
	}
	return query
}

func reportStatus(err error) (int, string) {
	switch {
	case err == nil:
		return fiber.StatusOK, ""
	case errors.Is(err, services.ErrScopeForbidden):
		return fiber.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrSubjectNotFound):
		return fiber.StatusNotFound, "subject not found"
	default:
		return fiber.StatusInternalServerError, "failed to build report"
	}
}

func (handler *Handler) serveReport(c *fiber.Ctx, name string, build func() (any, error)) error {
	started := time.Now()
	payload, err := build()
	status, message := reportStatus(err)
	observability.ObserveReport(name, status, time.Since(started))
	if err != nil {
		return apiError(c, status, message)
	}
	return c.JSON(payload)
}

func (handler *Handler) GetGoalAdherence(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	query := parseReportQuery(c)
	return handler.serveReport(c, "goal_adherence", func() (any, error) {
		return handler.reportService.BuildGoalAdherence(user, query, time.Now())
	})
}

func (handler *Handler) GetMacroDistribution(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	query := parseReportQuery(c)
	return handler.serveReport(c, "macro_distribution", func() (any, error) {
		return handler.reportService.BuildMacroDistribution(user, query, time.Now())
	})
}

func (handler *Handler) GetHydration(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	query := parseReportQuery(c)
	return handler.serveReport(c, "hydration", func() (any, error) {
		return handler.reportService.BuildHydration(user, query, time.Now())
	})
}

func (handler *Handler) GetTopFoods(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	query := parseReportQuery(c)
	return handler.serveReport(c, "top_foods", func() (any, error) {
		return handler.reportService.BuildTopFoods(user, query, time.Now())
	})
}

func (handler *Handler) GetBodyComposition(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	query := parseReportQuery(c)
	return handler.serveReport(c, "body_composition", func() (any, error) {
		return handler.reportService.BuildBodyComposition(user, query, time.Now())
	})
}
