package handler

import (
	"encoding/base64"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"emotivision/internal/imagestore"
	"emotivision/internal/service"
)

// EventHandler appends and reads the authenticated user's detections.
type EventHandler struct {
	eventService service.EventService
	snapshots    imagestore.Store
}

// NewEventHandler creates a new event handler. snapshots may be nil when
// snapshot storage is disabled.
func NewEventHandler(eventService service.EventService, snapshots imagestore.Store) *EventHandler {
	return &EventHandler{eventService: eventService, snapshots: snapshots}
}

// AppendEventRequest represents one detection to log. Snapshot carries an
// optional base64-encoded JPEG.
type AppendEventRequest struct {
	Emotion    string  `json:"emotion" validate:"required"`
	Confidence float64 `json:"confidence"`
	Age        string  `json:"age,omitempty"`
	Snapshot   string  `json:"snapshot,omitempty"`
}

// AppendEvent godoc
// @Summary Log a detection for the current user
// @Tags detections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AppendEventRequest true "Detection payload"
// @Success 201 {object} model.EmotionEvent
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /detections [post]
func (h *EventHandler) AppendEvent(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	var req AppendEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	imagePath := ""
	if req.Snapshot != "" && h.snapshots != nil {
		image, err := base64.StdEncoding.DecodeString(req.Snapshot)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "snapshot is not valid base64")
		}
		key, err := h.snapshots.Save(c.Request().Context(), s.Username, image)
		if err != nil {
			// the detection still counts without its snapshot
			log.Printf("snapshot upload failed: %v", err)
		} else {
			imagePath = key
		}
	}

	event, err := h.eventService.Append(c.Request().Context(), s.Username, req.Emotion, req.Confidence, req.Age, imagePath)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, event)
}

// RecentEvents godoc
// @Summary Most recent detections for the current user
// @Tags detections
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max events to return" default(10)
// @Success 200 {array} model.EmotionEvent
// @Failure 401 {object} errors.ErrorResponse
// @Router /detections/recent [get]
func (h *EventHandler) RecentEvents(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	events, err := h.eventService.Recent(c.Request().Context(), s.Username, limit)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, events)
}

// QueryEvents godoc
// @Summary Detections for the current user, optionally for one date
// @Tags detections
// @Produce json
// @Security BearerAuth
// @Param date query string false "Calendar date (YYYY-MM-DD)"
// @Success 200 {array} model.EmotionEvent
// @Failure 401 {object} errors.ErrorResponse
// @Router /detections [get]
func (h *EventHandler) QueryEvents(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	events, err := h.eventService.Query(c.Request().Context(), s.Username, c.QueryParam("date"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, events)
}
