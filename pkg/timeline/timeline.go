package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/evecal/evecal/pkg/appointment"
)

// AppointmentReader is the slice of the appointment service the day view
// needs: the merged (stored + derived) list for one date.
type AppointmentReader interface {
	GetForDate(ctx context.Context, date time.Time) ([]appointment.Appointment, error)
}

// Block is one appointment placed on the timeline.
type Block struct {
	Appointment appointment.Appointment
	// Top and Height are the vertical placement in pixels. Top can be
	// negative for appointments before the day window.
	Top    float64
	Height float64
	// Conflict is set when the appointment overlaps any other one that day,
	// regardless of owner.
	Conflict bool
}

// DayView is the fully laid out day: ruler marks plus positioned blocks.
type DayView struct {
	Date   time.Time
	Hours  []HourMark
	Blocks []Block
}

type Service struct {
	appointments AppointmentReader
	geometry     Geometry
}

func NewService(appointments AppointmentReader, geometry Geometry) *Service {
	return &Service{
		appointments: appointments,
		geometry:     geometry,
	}
}

func (s *Service) Geometry() Geometry {
	return s.geometry
}

// DayView fetches one date's appointments, flags double-bookings, and
// positions every block on the timeline.
func (s *Service) DayView(ctx context.Context, date time.Time) (*DayView, error) {
	appointments, err := s.appointments.GetForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load day view: %w", err)
	}

	conflicts := appointment.DetectOverlaps(appointments)

	blocks := make([]Block, 0, len(appointments))
	for _, a := range appointments {
		_, conflict := conflicts[a.UID]
		blocks = append(blocks, Block{
			Appointment: a,
			Top:         s.geometry.Position(a.StartTime),
			Height:      s.geometry.Span(a.StartTime, a.EndTime),
			Conflict:    conflict,
		})
	}

	return &DayView{
		Date:   appointment.DateOf(date),
		Hours:  s.geometry.HourMarks(),
		Blocks: blocks,
	}, nil
}
