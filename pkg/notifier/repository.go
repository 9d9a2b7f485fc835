package notifier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrSubscriptionNotFound = errors.New("push subscription not found")

type Repository interface {
	StoreSubscription(ctx context.Context, sub Subscription) (uuid.UUID, error)
	// GetSubscriptionsExcept returns all subscriptions not belonging to the
	// given user, i.e. the recipients of that user's mutations.
	GetSubscriptionsExcept(ctx context.Context, username string) ([]Subscription, error)
	GetSubscription(ctx context.Context, id uuid.UUID) (*Subscription, error)
	DeleteSubscription(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreSubscription(ctx context.Context, sub Subscription) (uuid.UUID, error) {
	query := `INSERT INTO push_subscription (id, username, endpoint, p256dh, auth, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return uuid.Nil, err
	}
	defer stmt.Close()

	id := uuid.New()
	_, err = stmt.ExecContext(ctx, id.String(), sub.Username, sub.Endpoint, sub.P256dh, sub.Auth, time.Now().UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return uuid.Nil, err
	}

	return id, nil
}

func (r *RepositoryImpl) GetSubscriptionsExcept(ctx context.Context, username string) ([]Subscription, error) {
	query := `SELECT id, username, endpoint, p256dh, auth, created_at
              FROM push_subscription
              WHERE username != ?`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		err := fmt.Errorf("could not query push subscriptions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	subscriptions := make([]Subscription, 0, 4)
	for rows.Next() {
		sub, err := scanSubscription(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		subscriptions = append(subscriptions, sub)
	}
	return subscriptions, rows.Err()
}

func (r *RepositoryImpl) GetSubscription(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	query := `SELECT id, username, endpoint, p256dh, auth, created_at FROM push_subscription WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id.String())
	sub, err := scanSubscription(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan row: %w", err)
		log.Error(err)
		return nil, err
	}
	return &sub, nil
}

func (r *RepositoryImpl) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM push_subscription WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id.String())
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func scanSubscription(scan func(dest ...any) error) (Subscription, error) {
	var idString string
	var username string
	var endpoint string
	var p256dh string
	var auth string
	var createdAtMillis int64

	if err := scan(&idString, &username, &endpoint, &p256dh, &auth, &createdAtMillis); err != nil {
		return Subscription{}, err
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		return Subscription{}, fmt.Errorf("invalid subscription id %q: %w", idString, err)
	}

	return Subscription{
		Id:        id,
		Username:  username,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		CreatedAt: time.UnixMilli(createdAtMillis),
	}, nil
}
