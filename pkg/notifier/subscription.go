package notifier

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is one browser's web-push registration for a user. The keys
// come from the service worker's PushManager subscription.
type Subscription struct {
	Id        uuid.UUID
	Username  string
	Endpoint  string
	P256dh    string
	Auth      string
	CreatedAt time.Time
}
