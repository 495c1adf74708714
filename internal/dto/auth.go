package dto

import (
	"time"

	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
)

// LoginRequest carries the console sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      SessionUser `json:"user"`
}

// SessionUser identifies the signed-in user.
type SessionUser struct {
	UserID string `json:"userID"`
	Email  string `json:"email"`
}

// ToLoginResponse converts a service login result into its response DTO.
func ToLoginResponse(res *portssvc.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      SessionUser{UserID: res.Session.UserID, Email: res.Session.Email},
	}
}

// ResetPasswordRequest starts the password reset flow.
type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
