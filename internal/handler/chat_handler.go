package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"emotivision/internal/chat"
	"emotivision/internal/service"
)

// ChatHandler serves the emotion-wellness assistant.
type ChatHandler struct {
	chatService  *chat.Service
	eventService service.EventService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *chat.Service, eventService service.EventService) *ChatHandler {
	return &ChatHandler{chatService: chatService, eventService: eventService}
}

// ChatRequest represents one message to the assistant. When UseContext is
// set, the user's latest detection is attached to the prompt.
type ChatRequest struct {
	Message    string `json:"message" validate:"required"`
	UseContext bool   `json:"use_context,omitempty"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Send godoc
// @Summary Send a message to the assistant
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "Message"
// @Success 200 {object} ChatResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Send(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	emotionContext := ""
	if req.UseContext {
		recent, err := h.eventService.Recent(c.Request().Context(), s.Username, 1)
		if err == nil && len(recent) == 1 {
			emotionContext = fmt.Sprintf("%s (confidence %.2f)", recent[0].Emotion, recent[0].Confidence)
		}
	}

	reply, err := h.chatService.Send(c.Request().Context(), s.Username, req.Message, emotionContext)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "assistant is unavailable")
	}
	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// History godoc
// @Summary Conversation history for the current session
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} chat.Turn
// @Failure 401 {object} errors.ErrorResponse
// @Router /chat/history [get]
func (h *ChatHandler) History(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.chatService.History(s.Username))
}

// Clear godoc
// @Summary Clear the conversation history
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /chat/history [delete]
func (h *ChatHandler) Clear(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	h.chatService.Reset(s.Username)
	return c.JSON(http.StatusOK, map[string]string{"message": "chat history cleared"})
}
