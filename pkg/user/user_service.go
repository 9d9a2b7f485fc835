package user

import (
	"github.com/evecal/evecal/internal/config"
)

// Service resolves users from the configured roster.
type Service interface {
	GetById(id int) (User, error)
	GetByUsername(username string) (User, error)
	List() []User
	// Other returns the roster entry that is not the given user. With exactly
	// two configured users this is the notification recipient for u's changes.
	Other(u User) (User, bool)
}

type RosterService struct {
	users []User
}

func NewRosterService(entries []config.User) *RosterService {
	users := make([]User, 0, len(entries))
	for _, e := range entries {
		users = append(users, User{
			Id:          e.Id,
			Username:    e.Username,
			DisplayName: e.DisplayName,
		})
	}
	return &RosterService{users: users}
}

func (s *RosterService) GetById(id int) (User, error) {
	for _, u := range s.users {
		if u.Id == id {
			return u, nil
		}
	}
	return User{}, ErrNoUser
}

func (s *RosterService) GetByUsername(username string) (User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNoUser
}

func (s *RosterService) List() []User {
	users := make([]User, len(s.users))
	copy(users, s.users)
	return users
}

func (s *RosterService) Other(u User) (User, bool) {
	for _, other := range s.users {
		if other.Id != u.Id {
			return other, true
		}
	}
	return User{}, false
}
