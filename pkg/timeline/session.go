package timeline

import (
	"sync"
	"time"

	"github.com/evecal/evecal/internal/utils"
	"github.com/evecal/evecal/pkg/appointment"
)

// Session tracks one user's selected date and guards the day view against
// out-of-order fetch results: navigation supersedes in-flight fetches, so a
// result for a date that is no longer selected is discarded on arrival. The
// last successfully applied view is retained, which keeps the screen on
// stale-but-visible data when a later fetch fails.
type Session struct {
	mu       sync.Mutex
	selected time.Time
	lastView *DayView
}

// NewSession starts a session on today's date.
func NewSession(clock utils.Clock) *Session {
	return &Session{
		selected: appointment.DateOf(clock.Now()),
	}
}

// Selected returns the currently selected date.
func (s *Session) Selected() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select switches to an explicit date and returns it normalized.
func (s *Session) Select(date time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = appointment.DateOf(date)
	return s.selected
}

// PrevDay navigates one day back and returns the new selection.
func (s *Session) PrevDay() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = s.selected.AddDate(0, 0, -1)
	return s.selected
}

// NextDay navigates one day forward and returns the new selection.
func (s *Session) NextDay() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = s.selected.AddDate(0, 0, 1)
	return s.selected
}

// Apply stores the fetched view if it still matches the selected date and
// reports whether it was applied. A stale view (the user navigated away while
// the fetch was in flight) is discarded without touching the retained view.
func (s *Session) Apply(view *DayView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if view == nil || !view.Date.Equal(s.selected) {
		return false
	}
	s.lastView = view
	return true
}

// View returns the last applied day view, if any.
func (s *Session) View() (*DayView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastView == nil {
		return nil, false
	}
	return s.lastView, true
}

// SessionRegistry hands out one Session per user id.
type SessionRegistry struct {
	mu       sync.Mutex
	clock    utils.Clock
	sessions map[int]*Session
}

func NewSessionRegistry(clock utils.Clock) *SessionRegistry {
	return &SessionRegistry{
		clock:    clock,
		sessions: make(map[int]*Session),
	}
}

func (r *SessionRegistry) ForUser(userId int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[userId]
	if !ok {
		session = NewSession(r.clock)
		r.sessions[userId] = session
	}
	return session
}
