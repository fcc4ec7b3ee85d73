package auth

import (
	"crypto/hmac"
	"net/http"
	"strings"
	"time"

	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/api"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/pkg/config"
)

// AdminAuth validates admin session tokens issued by the login handler.
//
// Expected header:
// - Authorization: Bearer <JWT>
//
// In dev, if Authorization is missing, X-Admin-Token matching ADMIN_DEV_TOKEN
// keeps local tooling and curl simple.
func AdminAuth(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token := strings.TrimSpace(authz[7:])
				vs, err := VerifySessionToken(token, cfg.Admin.JWTSecret, time.Now())
				if err != nil {
					api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
					return
				}
				next.ServeHTTP(w, r.WithContext(api.WithAdmin(r.Context(), &api.Admin{Email: vs.Email})))
				return
			}

			// Dev fallback
			if cfg.AppEnv != "prod" && cfg.Admin.DevToken != "" {
				devToken := strings.TrimSpace(r.Header.Get("X-Admin-Token"))
				if devToken != "" && hmac.Equal([]byte(devToken), []byte(cfg.Admin.DevToken)) {
					next.ServeHTTP(w, r.WithContext(api.WithAdmin(r.Context(), &api.Admin{Email: cfg.Admin.Email})))
					return
				}
			}

			api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
		})
	}
}
