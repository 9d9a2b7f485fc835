package notifier

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evecal/evecal/internal/config"
	"github.com/evecal/evecal/internal/rest"
	"github.com/evecal/evecal/pkg/user"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	cfg     config.WebPush
}

// SubscriptionDTO mirrors the browser's PushSubscription JSON.
type SubscriptionDTO struct {
	Id       string             `json:"id,omitempty"`
	Endpoint string             `json:"endpoint"`
	Keys     SubscriptionKeyDTO `json:"keys"`
}

type SubscriptionKeyDTO struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

func NewHandler(service *Service, cfg config.WebPush) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
	}
}

// PublicKey hands the VAPID public key to the service-worker registration.
func (h *Handler) PublicKey(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"publicKey": h.cfg.PublicKey}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var dto SubscriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}
	if dto.Endpoint == "" || dto.Keys.P256dh == "" || dto.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error: "endpoint and keys (p256dh, auth) are required",
		})
		return
	}

	sub, err := h.service.Subscribe(r.Context(), Subscription{
		Endpoint: dto.Endpoint,
		P256dh:   dto.Keys.P256dh,
		Auth:     dto.Keys.Auth,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SubscriptionDTO{
		Id:       sub.Id.String(),
		Endpoint: sub.Endpoint,
		Keys: SubscriptionKeyDTO{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid subscription id"})
		return
	}

	if err := h.service.Unsubscribe(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		writeError(w, http.StatusUnauthorized, rest.ErrorResponse{Error: "No acting user"})
	case errors.Is(err, ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, rest.ErrorResponse{Error: "Subscription not found"})
	default:
		log.Errorf("notification request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, body rest.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
