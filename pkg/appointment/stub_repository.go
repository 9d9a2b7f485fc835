package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	Appointments []Appointment

	// Optional error injection, returned by the corresponding method.
	StoreErr      error
	GetForDateErr error
}

func (s *StubRepository) StoreAppointment(ctx context.Context, appointment Appointment) (uuid.UUID, error) {
	if s.StoreErr != nil {
		return uuid.Nil, s.StoreErr
	}
	appointment.UID = uuid.New()
	s.Appointments = append(s.Appointments, appointment)
	return appointment.UID, nil
}

func (s *StubRepository) GetForDate(ctx context.Context, date time.Time) ([]Appointment, error) {
	if s.GetForDateErr != nil {
		return nil, s.GetForDateErr
	}
	day := DateOf(date)
	result := make([]Appointment, 0)
	for _, a := range s.Appointments {
		if !a.IsRecurring && DateOf(a.Date).Equal(day) {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (s *StubRepository) GetTemplates(ctx context.Context) ([]Appointment, error) {
	result := make([]Appointment, 0)
	for _, a := range s.Appointments {
		if a.IsRecurring {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *StubRepository) GetAppointment(ctx context.Context, uid uuid.UUID) (*Appointment, error) {
	for i := range s.Appointments {
		if s.Appointments[i].UID == uid {
			found := s.Appointments[i]
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *StubRepository) UpdateAppointment(ctx context.Context, appointment Appointment) error {
	for i := range s.Appointments {
		if s.Appointments[i].UID == appointment.UID {
			s.Appointments[i] = appointment
			return nil
		}
	}
	return ErrNotFound
}

func (s *StubRepository) DeleteAppointment(ctx context.Context, uid uuid.UUID) error {
	for i := range s.Appointments {
		if s.Appointments[i].UID == uid {
			s.Appointments = append(s.Appointments[:i], s.Appointments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *StubRepository) Cleanup() {
	s.Appointments = []Appointment{}
}
