package notifier

import (
	"context"
	"testing"

	"github.com/evecal/evecal/internal/test_utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) *RepositoryImpl {
	db := test_utils.SetupTestDB(t)
	return NewRepository(db)
}

func TestRepository_StoreAndGet(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	id, err := repo.StoreSubscription(ctx, Subscription{
		Username: "u1",
		Endpoint: "https://push.example/one",
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	stored, err := repo.GetSubscription(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, stored.Id)
	assert.Equal(t, "u1", stored.Username)
	assert.Equal(t, "https://push.example/one", stored.Endpoint)
	assert.Equal(t, "p256dh-key", stored.P256dh)
	assert.Equal(t, "auth-secret", stored.Auth)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRepository_GetSubscriptionsExcept(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	_, err := repo.StoreSubscription(ctx, Subscription{
		Username: "u1", Endpoint: "https://push.example/one", P256dh: "k1", Auth: "a1"})
	require.NoError(t, err)
	_, err = repo.StoreSubscription(ctx, Subscription{
		Username: "u2", Endpoint: "https://push.example/two", P256dh: "k2", Auth: "a2"})
	require.NoError(t, err)
	_, err = repo.StoreSubscription(ctx, Subscription{
		Username: "u2", Endpoint: "https://push.example/three", P256dh: "k3", Auth: "a3"})
	require.NoError(t, err)

	recipients, err := repo.GetSubscriptionsExcept(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "u1", recipients[0].Username)

	recipients, err = repo.GetSubscriptionsExcept(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, recipients, 2)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	id, err := repo.StoreSubscription(ctx, Subscription{
		Username: "u1", Endpoint: "https://push.example/one", P256dh: "k1", Auth: "a1"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSubscription(ctx, id))

	_, err = repo.GetSubscription(ctx, id)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	assert.ErrorIs(t, repo.DeleteSubscription(ctx, id), ErrSubscriptionNotFound)
}
