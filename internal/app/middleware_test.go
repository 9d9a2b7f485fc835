package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evecal/evecal/internal/config"
	"github.com/evecal/evecal/pkg/user"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_ResolvesUserHeader(t *testing.T) {
	deps := &Dependencies{
		UserService: user.NewRosterService([]config.User{
			{Id: 1, Username: "dan", DisplayName: "Dan"},
			{Id: 2, Username: "alex", DisplayName: "Alex"},
		}),
	}

	var seen *user.User
	router := mux.NewRouter()
	SetupMiddleware(router, deps, config.Application{})
	router.HandleFunc("/probe", func(w http.ResponseWriter, r *http.Request) {
		if u, err := user.CurrentUser(r.Context()); err == nil {
			found := u
			seen = &found
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "2")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "alex", seen.Username)
}

func TestMiddleware_AbsentHeaderPassesThrough(t *testing.T) {
	deps := &Dependencies{
		UserService: user.NewRosterService(nil),
	}

	reached := false
	router := mux.NewRouter()
	SetupMiddleware(router, deps, config.Application{})
	router.HandleFunc("/probe", func(w http.ResponseWriter, r *http.Request) {
		reached = true
		_, err := user.CurrentUser(r.Context())
		assert.ErrorIs(t, err, user.ErrNoUser)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, reached)
}

func TestMiddleware_RejectsBadHeader(t *testing.T) {
	deps := &Dependencies{
		UserService: user.NewRosterService([]config.User{
			{Id: 1, Username: "dan", DisplayName: "Dan"},
		}),
	}

	router := mux.NewRouter()
	SetupMiddleware(router, deps, config.Application{})
	router.HandleFunc("/probe", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "not-a-number")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "42")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
