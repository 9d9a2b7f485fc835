package notifier

import (
	"context"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/evecal/evecal/internal/config"
)

// Pusher delivers one payload to one push subscription.
type Pusher interface {
	Send(ctx context.Context, sub Subscription, payload []byte) error
}

// WebPushPusher sends VAPID-signed web-push messages.
type WebPushPusher struct {
	cfg config.WebPush
}

func NewWebPushPusher(cfg config.WebPush) *WebPushPusher {
	return &WebPushPusher{cfg: cfg}
}

func (p *WebPushPusher) Send(ctx context.Context, sub Subscription, payload []byte) error {
	subscription := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, subscription, &webpush.Options{
		Subscriber:      p.cfg.SubscriberEmail,
		VAPIDPublicKey:  p.cfg.PublicKey,
		VAPIDPrivateKey: p.cfg.PrivateKey,
		TTL:             p.cfg.TTL,
	})
	if err != nil {
		return fmt.Errorf("web push to %s failed: %w", sub.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("web push to %s rejected with status %d", sub.Endpoint, resp.StatusCode)
	}
	return nil
}
