// Package handlers implements the HTTP endpoints of the companion API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/api/middleware"
	"github.com/ecaldwell/cipher/internal/auth"
)

// AuthHandler handles account setup, login, and the sensitive account
// operations that require password re-entry.
type AuthHandler struct {
	gateway *auth.Gateway
	log     zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(gateway *auth.Gateway, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		gateway: gateway,
		log:     log,
	}
}

// Setup handles POST /api/auth/setup
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		CustomerID string `json:"customer_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.CustomerID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Missing required fields: email, password, customer_id")
		return
	}

	if err := h.gateway.SignUp(r.Context(), req.Email, req.Password, req.CustomerID); err != nil {
		h.log.Warn().Err(err).Msg("Sign up failed")
		middleware.WriteError(w, authStatus(err), auth.Humanize(err))
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Account created",
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	decoy, err := h.gateway.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Warn().Err(err).Msg("Login failed")
		middleware.WriteError(w, authStatus(err), auth.Humanize(err))
		return
	}

	resp := map[string]interface{}{
		"success":  true,
		"is_decoy": decoy,
		"message":  "Login successful",
	}
	if decoy {
		resp["message"] = "Decoy mode activated"
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.SignOut(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Sign out failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Could not sign out")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Signed out",
	})
}

// Verify handles POST /api/auth/verify — password re-check for sensitive
// operations, without a full login.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Password == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Missing password")
		return
	}

	if err := h.gateway.VerifyPassword(r.Context(), req.Password); err != nil {
		middleware.WriteError(w, authStatus(err), auth.Humanize(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password verified",
	})
}

// UpdatePassword handles POST /api/auth/update-password
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if err := h.gateway.UpdatePassword(r.Context(), req.OldPassword, req.NewPassword); err != nil {
		middleware.WriteError(w, authStatus(err), auth.Humanize(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password updated successfully",
	})
}

// DeleteAccount handles POST /api/auth/delete-account
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
		Confirm  string `json:"confirm"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.gateway.DeleteAccount(r.Context(), req.Password, req.Confirm); err != nil {
		middleware.WriteError(w, authStatus(err), auth.Humanize(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Account deleted successfully",
	})
}

// authStatus maps gateway errors to HTTP status codes.
func authStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrWrongPassword),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrConfirmationNeeded):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, auth.ErrDecoySessionBlocked):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
