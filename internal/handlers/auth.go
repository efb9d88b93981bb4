package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/auth"
	"github.com/ukydev/rental-market/internal/models"
)

// AuthHandler handles registration, login and logout.
//
// Failures on this surface are written as HTTP 200 with success false,
// which existing clients depend on.
type AuthHandler struct {
	accounts *auth.Accounts
	logger   logrus.FieldLogger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(accounts *auth.Accounts, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, apperr.Validation("Please provide all fields"))
		return
	}

	token, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, Token: token})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, apperr.Validation("Please provide all fields"))
		return
	}

	token, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, Token: token})
}

// Logout is stateless; clients drop their token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, Message: "User logged out successfully"})
}

func (h *AuthHandler) fail(w http.ResponseWriter, err error) {
	if apperr.Is(err, apperr.KindInternal) {
		h.logger.WithError(err).Error("User request failed")
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: false, Message: apperr.Message(err)})
}
