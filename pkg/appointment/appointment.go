package appointment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is a naive wall-clock time of day, stored as minutes since
// midnight. All times in the calendar live in a single implicit timezone.
type TimeOfDay int

// TimeUnset marks a time field that was absent from a draft.
const TimeUnset TimeOfDay = -1

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses a "15:04" formatted wall-clock time.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeUnset, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int    { return int(t) / 60 }
func (t TimeOfDay) Minute() int  { return int(t) % 60 }
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DateOf normalizes a timestamp to its calendar day (midnight UTC).
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdayIndex returns the weekday of a date using Monday-first indices,
// 0=Monday .. 6=Sunday, the convention recurrenceDays is stored in.
func WeekdayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// Appointment is a concrete entry on one calendar day. A recurring template is
// an Appointment with IsRecurring set and a non-empty RecurrenceDays; it is the
// only persisted record of a series, and concrete daily instances are derived
// from it at query time with TemplateUID pointing back at it.
type Appointment struct {
	UID uuid.UUID
	// TemplateUID is set only on derived instances and references the
	// recurring template the instance was materialized from.
	TemplateUID uuid.NullUUID
	// Owner is the username of the user who created the appointment.
	Owner     string
	Title     string
	Date      time.Time
	StartTime TimeOfDay
	EndTime   TimeOfDay
	// CanWatchEvee flags whether Evee is covered during this slot.
	CanWatchEvee   bool
	IsRecurring    bool
	RecurrenceDays []int
}

// IsTemplate reports whether this is a persisted recurring template rather
// than a single appointment or a derived instance.
func (a Appointment) IsTemplate() bool {
	return a.IsRecurring && !a.TemplateUID.Valid
}

// IsDerived reports whether this instance was materialized from a template
// and only exists within a single date-query response.
func (a Appointment) IsDerived() bool {
	return a.TemplateUID.Valid
}
