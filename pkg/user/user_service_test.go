package user

import (
	"context"
	"testing"

	"github.com/evecal/evecal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() *RosterService {
	return NewRosterService([]config.User{
		{Id: 1, Username: "dan", DisplayName: "Dan"},
		{Id: 2, Username: "alex", DisplayName: "Alex"},
	})
}

func TestRosterService_GetById(t *testing.T) {
	roster := testRoster()

	u, err := roster.GetById(1)
	require.NoError(t, err)
	assert.Equal(t, "dan", u.Username)

	_, err = roster.GetById(3)
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestRosterService_GetByUsername(t *testing.T) {
	roster := testRoster()

	u, err := roster.GetByUsername("alex")
	require.NoError(t, err)
	assert.Equal(t, 2, u.Id)

	_, err = roster.GetByUsername("nobody")
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestRosterService_Other(t *testing.T) {
	roster := testRoster()

	dan, err := roster.GetById(1)
	require.NoError(t, err)

	other, ok := roster.Other(dan)
	require.True(t, ok)
	assert.Equal(t, "alex", other.Username)

	// With a single-entry roster there is no other user.
	solo := NewRosterService([]config.User{{Id: 1, Username: "dan"}})
	_, ok = solo.Other(User{Id: 1, Username: "dan"})
	assert.False(t, ok)
}

func TestUserContext(t *testing.T) {
	_, err := CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)

	ctx := WithUser(context.Background(), User{Id: 1, Username: "dan"})
	u, err := CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dan", u.Username)

	id, err := CurrentId(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}
