package appointment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeAppointment(owner string, start, end TimeOfDay) Appointment {
	return Appointment{
		UID:       uuid.New(),
		Owner:     owner,
		Title:     "Test appointment",
		StartTime: start,
		EndTime:   end,
	}
}

func TestDetectOverlaps(t *testing.T) {
	a := makeAppointment("u1", NewTimeOfDay(9, 0), NewTimeOfDay(10, 0))
	b := makeAppointment("u2", NewTimeOfDay(9, 30), NewTimeOfDay(10, 30))
	c := makeAppointment("u2", NewTimeOfDay(10, 0), NewTimeOfDay(11, 0))
	container := makeAppointment("u1", NewTimeOfDay(9, 0), NewTimeOfDay(12, 0))
	contained := makeAppointment("u2", NewTimeOfDay(10, 0), NewTimeOfDay(10, 30))

	testCases := []struct {
		name         string
		appointments []Appointment
		want         []uuid.UUID
	}{
		{
			name:         "empty list",
			appointments: []Appointment{},
			want:         []uuid.UUID{},
		},
		{
			name:         "single appointment",
			appointments: []Appointment{a},
			want:         []uuid.UUID{},
		},
		{
			name:         "cross-user overlap flags both",
			appointments: []Appointment{a, b},
			want:         []uuid.UUID{a.UID, b.UID},
		},
		{
			name:         "touching endpoints do not overlap",
			appointments: []Appointment{a, c},
			want:         []uuid.UUID{},
		},
		{
			name:         "contained interval flags container too",
			appointments: []Appointment{container, contained},
			want:         []uuid.UUID{container.UID, contained.UID},
		},
		{
			name:         "multiple overlaps report each uid once",
			appointments: []Appointment{container, a, contained},
			want:         []uuid.UUID{container.UID, a.UID, contained.UID},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectOverlaps(tc.appointments)

			assert.Len(t, got, len(tc.want))
			for _, uid := range tc.want {
				assert.Contains(t, got, uid)
			}
		})
	}
}

func TestDetectOverlaps_MovedAppointmentClearsConflict(t *testing.T) {
	a := makeAppointment("u1", NewTimeOfDay(9, 0), NewTimeOfDay(10, 0))
	b := makeAppointment("u2", NewTimeOfDay(9, 30), NewTimeOfDay(10, 30))

	got := DetectOverlaps([]Appointment{a, b})
	assert.Contains(t, got, a.UID)
	assert.Contains(t, got, b.UID)

	// Move b to start exactly when a ends.
	b.StartTime = NewTimeOfDay(10, 0)
	b.EndTime = NewTimeOfDay(11, 0)

	got = DetectOverlaps([]Appointment{a, b})
	assert.Empty(t, got)
}

func TestDetectOverlaps_EqualStartTimes(t *testing.T) {
	a := makeAppointment("u1", NewTimeOfDay(9, 0), NewTimeOfDay(9, 30))
	b := makeAppointment("u2", NewTimeOfDay(9, 0), NewTimeOfDay(10, 0))

	got := DetectOverlaps([]Appointment{a, b})

	assert.Contains(t, got, a.UID)
	assert.Contains(t, got, b.UID)
}
