package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/dto"
	"github.com/SscSPs/sismog_console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// resetRequestedMessage is returned whether or not the address is known.
const resetRequestedMessage = "If the address is registered, a password reset link has been sent."

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	authService portssvc.AuthSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AuthSvcFacade) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login godoc
// @Summary User login
// @Description Verifies credentials with the identity service, opens the console workspace and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Warn("Login rejected", slog.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: apperrors.Message(err)})
			return
		}
		respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoginResponse(result))
}

// Logout godoc
// @Summary User logout
// @Description Ends the identity session and discards the console workspace.
// @Tags auth
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}
	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		// The workspace is gone either way.
		logger.Warn("Identity sign-out failed", slog.String("error", err.Error()))
	}
	c.Status(http.StatusNoContent)
}

// RequestPasswordReset godoc
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body dto.ResetPasswordRequest true "Account email"
// @Success 202 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "Password reset request failed")
		return
	}
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: resetRequestedMessage})
}
