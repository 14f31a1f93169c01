package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"emotivision/internal/service"
	"emotivision/internal/session"
)

// ProfileHandler serves account detail and the password-gated mutations.
type ProfileHandler struct {
	authService service.AuthService
	sessions    *session.Manager
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(authService service.AuthService, sessions *session.Manager) *ProfileHandler {
	return &ProfileHandler{authService: authService, sessions: sessions}
}

// UpdateEmailRequest represents an email update.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// DeleteAccountRequest confirms deletion with the account password.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	user, err := h.authService.GetProfile(c.Request().Context(), s.Username)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateEmail godoc
// @Summary Update the account email
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateEmailRequest true "New email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /profile/email [put]
func (h *ProfileHandler) UpdateEmail(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	var req UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.UpdateEmail(c.Request().Context(), s.Username, req.Email); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "email updated successfully"})
}

// ChangePassword godoc
// @Summary Change the account password
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile/password [put]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), s.Username, req.OldPassword, req.NewPassword); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password changed successfully"})
}

// DeleteAccount godoc
// @Summary Delete the account and all its data
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteAccountRequest true "Password confirmation"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile [delete]
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	var req DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.DeleteAccount(c.Request().Context(), s.Username, req.Password); err != nil {
		return domainError(err)
	}
	// the account is gone, so the session goes with it
	_ = h.sessions.Logout(c.Request().Context(), s)

	return c.JSON(http.StatusOK, map[string]string{"message": "account deleted successfully"})
}
