package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/api"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/pkg/config"
)

type Handlers struct {
	Cfg config.Config
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// Login checks the configured admin credentials and returns a session token.
func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing email or password")
		return
	}

	admin := h.Cfg.Admin
	if email != strings.ToLower(admin.Email) || !VerifyPassword(req.Password, admin.PasswordDigest, admin.JWTSecret) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	token, expiresAt, err := IssueSessionToken(email, admin.JWTSecret, admin.TokenTTL, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}
