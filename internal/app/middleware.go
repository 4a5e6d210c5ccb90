package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/monetapp/moneta/internal/auth"
	"github.com/monetapp/moneta/internal/config"
	"github.com/monetapp/moneta/pkg/user"
	log "github.com/sirupsen/logrus"
)

// publicPaths are reachable without a session token.
var publicPaths = map[string]bool{
	"/api/auth/signup": true,
	"/api/auth/login":  true,
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// CORS for the frontend origin
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.Host)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	// mux runs middleware only on matched routes, and every API route is
	// method-restricted. Preflights need their own match or an
	// OPTIONS request falls through to the 405 handler when the
	// frontend catch-all is disabled.
	r.PathPrefix("/api/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Resolve the session token into a user in the request context
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if publicPaths[req.URL.Path] || !strings.HasPrefix(req.URL.Path, "/api/") {
				next.ServeHTTP(w, req)
				return
			}

			token := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				http.Error(w, "missing session token", http.StatusUnauthorized)
				return
			}

			claims, err := deps.TokenService.Validate(token)
			if errors.Is(err, auth.ErrInvalidToken) {
				http.Error(w, "invalid session token", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.Errorf("failed to validate token: %v", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			ctx := req.Context()
			u, err := deps.UserService.GetUser(ctx, claims.UserID)
			if errors.Is(err, user.ErrUserNotFound) {
				log.Debugf("user from token not found: %s", claims.UserID)
				http.Error(w, "user not found", http.StatusForbidden)
				return
			}
			if err != nil {
				log.Errorf("failed to get user: %v", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if u.Status != user.StatusApproved {
				http.Error(w, "account is not approved", http.StatusForbidden)
				return
			}

			ctx = user.WithUser(ctx, u)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}

// requireAdmin guards a handler so only admins reach it.
func requireAdmin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := user.CurrentUser(r.Context())
		if err != nil {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
		if u.Role != user.RoleAdmin {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		h(w, r)
	}
}
