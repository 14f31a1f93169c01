package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "emotivision/internal/errors"
	"emotivision/internal/jsonlog"
	"emotivision/internal/service"
)

// FeedHandler serves the content personalization API over the JSON mirror.
// Response shapes follow the published contract: errors use a {"detail": ...}
// body and an empty log is a 404.
type FeedHandler struct {
	feedService service.FeedService
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feedService service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func feedError(c echo.Context, err error) error {
	if errors.Is(err, apperrors.ErrNoEventData) {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "No emotion data found"})
	}
	if errors.Is(err, apperrors.ErrInvalidEvent) {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "internal error"})
}

// LatestEmotion godoc
// @Summary Most recent emotion event
// @Tags feed
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /latest_emotion [get]
func (h *FeedHandler) LatestEmotion(c echo.Context) error {
	entry, err := h.feedService.Latest(c.Request().Context())
	if err != nil {
		return feedError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"emotion":    entry.Emotion,
		"confidence": entry.Confidence,
		"age":        entry.Age,
		"timestamp":  entry.Timestamp,
	})
}

// EmotionTrend godoc
// @Summary Emotion counts across all events
// @Tags feed
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /emotion_trend [get]
func (h *FeedHandler) EmotionTrend(c echo.Context) error {
	trend, err := h.feedService.EmotionTrend(c.Request().Context())
	if err != nil {
		return feedError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"trend": trend})
}

// AgeDistribution godoc
// @Summary Age bucket counts across all events
// @Tags feed
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /age_distribution [get]
func (h *FeedHandler) AgeDistribution(c echo.Context) error {
	ages, err := h.feedService.AgeDistribution(c.Request().Context())
	if err != nil {
		return feedError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"age_distribution": ages})
}

// Events godoc
// @Summary Raw events filtered by user and date
// @Tags feed
// @Produce json
// @Param date query string false "Calendar date prefix (YYYY-MM-DD)"
// @Param user query string false "Username"
// @Success 200 {array} jsonlog.Entry
// @Failure 401 {object} map[string]string
// @Router /events [get]
func (h *FeedHandler) Events(c echo.Context) error {
	entries, err := h.feedService.Events(c.Request().Context(), c.QueryParam("user"), c.QueryParam("date"))
	if err != nil {
		return feedError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// PushEvent godoc
// @Summary Append one externally produced event
// @Tags feed
// @Accept json
// @Produce json
// @Param event body jsonlog.Entry true "Event payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /push_event [post]
func (h *FeedHandler) PushEvent(c echo.Context) error {
	var entry jsonlog.Entry
	if err := c.Bind(&entry); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid event payload"})
	}

	stored, err := h.feedService.Push(c.Request().Context(), entry)
	if err != nil {
		return feedError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "success",
		"event":  stored,
	})
}
