package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	Subscriptions []Subscription
}

func (s *StubRepository) StoreSubscription(ctx context.Context, sub Subscription) (uuid.UUID, error) {
	sub.Id = uuid.New()
	sub.CreatedAt = time.Now()
	s.Subscriptions = append(s.Subscriptions, sub)
	return sub.Id, nil
}

func (s *StubRepository) GetSubscriptionsExcept(ctx context.Context, username string) ([]Subscription, error) {
	result := make([]Subscription, 0)
	for _, sub := range s.Subscriptions {
		if sub.Username != username {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (s *StubRepository) GetSubscription(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	for i := range s.Subscriptions {
		if s.Subscriptions[i].Id == id {
			found := s.Subscriptions[i]
			return &found, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (s *StubRepository) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	for i := range s.Subscriptions {
		if s.Subscriptions[i].Id == id {
			s.Subscriptions = append(s.Subscriptions[:i], s.Subscriptions[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}
