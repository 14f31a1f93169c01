package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "emotivision/internal/errors"
	"emotivision/internal/session"
)

// sessionContextKey is where the resumed session lives on the echo context.
const sessionContextKey = "app_session"

// SetSession attaches a resumed session to the request context.
func SetSession(c echo.Context, s *session.Session) {
	c.Set(sessionContextKey, s)
}

// currentSession returns the authenticated session or a 401 error.
func currentSession(c echo.Context) (*session.Session, error) {
	s, ok := c.Get(sessionContextKey).(*session.Session)
	if !ok || s == nil || s.Username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "not authenticated",
			Code:  "UNAUTHENTICATED",
		})
	}
	return s, nil
}

// domainError converts a service error into an echo HTTP error using the
// shared taxonomy mapping.
func domainError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
