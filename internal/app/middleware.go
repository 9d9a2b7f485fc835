package app

import (
	"net/http"
	"strconv"

	"github.com/evecal/evecal/internal/config"
	"github.com/evecal/evecal/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-User-Id header into context for downstream services.
	// Identity is injected, not derived: the roster has exactly two users.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userIdHeader := req.Header.Get("X-User-Id")
			ctx := req.Context()

			if userIdHeader != "" {
				userId, err := strconv.Atoi(userIdHeader)
				if err != nil {
					http.Error(w, "invalid user id", http.StatusBadRequest)
					return
				}
				u, err := deps.UserService.GetById(userId)
				if err != nil {
					log.Debugf("user not found: %s", userIdHeader)
					http.Error(w, "user not found", http.StatusForbidden)
					return
				}
				log.Debugf("user found: %s", u.Username)
				ctx = user.WithUser(ctx, u)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
