package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const UserKey contextKey = "user"

var ErrNoUser = errors.New("user not found")

// CurrentUser retrieves the acting user from the context. Returns ErrNoUser
// if no user was propagated into the context.
func CurrentUser(ctx context.Context) (User, error) {
	user, ok := ctx.Value(UserKey).(User)
	if !ok {
		log.Trace("user not found in context")
		return User{}, ErrNoUser
	}
	return user, nil
}

// CurrentId retrieves the acting user's ID from the context.
func CurrentId(ctx context.Context) (int, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return user.Id, nil
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
