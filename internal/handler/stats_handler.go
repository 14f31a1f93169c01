package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"emotivision/internal/service"
)

// StatsHandler serves derived per-user summaries.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Summary godoc
// @Summary Per-user emotion summary
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AggregateStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /stats/summary [get]
func (h *StatsHandler) Summary(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	stats, err := h.statsService.Summarize(c.Request().Context(), s.Username)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Trend godoc
// @Summary Per-user daily emotion counts for a trailing window
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window size in days" default(30)
// @Success 200 {array} model.TrendPoint
// @Failure 401 {object} errors.ErrorResponse
// @Router /stats/trend [get]
func (h *StatsHandler) Trend(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	days := 30
	if v := c.QueryParam("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid days")
		}
		days = parsed
	}

	points, err := h.statsService.Trend(c.Request().Context(), s.Username, days)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, points)
}
