package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/evecal/evecal/internal/event_bus"
	"github.com/evecal/evecal/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repo   Repository
	pusher Pusher
}

// pushMessage is the JSON payload the service worker displays.
type pushMessage struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

func NewService(repo Repository, pusher Pusher) *Service {
	return &Service{
		repo:   repo,
		pusher: pusher,
	}
}

// Subscribe registers a push subscription for the acting user.
func (s *Service) Subscribe(ctx context.Context, sub Subscription) (*Subscription, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	sub.Username = current.Username

	id, err := s.repo.StoreSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to store subscription: %w", err)
	}
	sub.Id = id
	return &sub, nil
}

// Unsubscribe removes one of the acting user's push subscriptions.
func (s *Service) Unsubscribe(ctx context.Context, id uuid.UUID) error {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return err
	}
	if sub.Username != current.Username {
		return ErrSubscriptionNotFound
	}
	return s.repo.DeleteSubscription(ctx, id)
}

// NotifyMutation pushes "someone changed the calendar" to every subscription
// that does not belong to the mutating user. Individual delivery failures are
// logged and skipped; the mutation already happened.
func (s *Service) NotifyMutation(ctx context.Context, verb string, mutation event_bus.AppointmentMutation) error {
	subscriptions, err := s.repo.GetSubscriptionsExcept(ctx, mutation.Owner)
	if err != nil {
		return fmt.Errorf("failed to load push subscriptions: %w", err)
	}
	if len(subscriptions) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushMessage{
		Title: "Shared calendar updated",
		Body:  fmt.Sprintf("%s %s %q on %s", mutation.Owner, verb, mutation.Title, mutation.Date),
		Data: map[string]string{
			"date": mutation.Date,
			"kind": verb,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	for _, sub := range subscriptions {
		if err := s.pusher.Send(ctx, sub, payload); err != nil {
			log.Warnf("push to %s failed: %v", sub.Username, err)
		}
	}
	return nil
}

// RegisterOnBus subscribes the notifier to all appointment mutation events.
func (s *Service) RegisterOnBus(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.AppointmentMutation](bus, event_bus.AppointmentCreated,
		func(e event_bus.EventT[event_bus.AppointmentMutation]) error {
			return s.NotifyMutation(e.Context(), "created", e.Data)
		})
	event_bus.SubscribeTyped[event_bus.AppointmentMutation](bus, event_bus.AppointmentUpdated,
		func(e event_bus.EventT[event_bus.AppointmentMutation]) error {
			return s.NotifyMutation(e.Context(), "updated", e.Data)
		})
	event_bus.SubscribeTyped[event_bus.AppointmentMutation](bus, event_bus.AppointmentDeleted,
		func(e event_bus.EventT[event_bus.AppointmentMutation]) error {
			return s.NotifyMutation(e.Context(), "deleted", e.Data)
		})
}
