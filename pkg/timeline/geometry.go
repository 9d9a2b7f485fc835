package timeline

import (
	"fmt"

	"github.com/evecal/evecal/internal/config"
	"github.com/evecal/evecal/pkg/appointment"
)

// Geometry maps wall-clock times onto vertical timeline offsets. One slot
// unit of time occupies SlotPixelHeight pixels, with the visible window
// starting at DayStartHour.
type Geometry struct {
	DayStartHour    int
	SlotUnitMinutes int
	SlotPixelHeight int
	VisibleHours    int
}

// DefaultGeometry is the 6 AM anchored, 90px-per-hour, 18-hour day view.
func DefaultGeometry() Geometry {
	return Geometry{
		DayStartHour:    6,
		SlotUnitMinutes: 60,
		SlotPixelHeight: 90,
		VisibleHours:    18,
	}
}

func GeometryFromConfig(cfg config.Calendar) Geometry {
	g := DefaultGeometry()
	if cfg.DayStartHour > 0 {
		g.DayStartHour = cfg.DayStartHour
	}
	if cfg.SlotUnitMinutes > 0 {
		g.SlotUnitMinutes = cfg.SlotUnitMinutes
	}
	if cfg.SlotPixelHeight > 0 {
		g.SlotPixelHeight = cfg.SlotPixelHeight
	}
	if cfg.VisibleHours > 0 {
		g.VisibleHours = cfg.VisibleHours
	}
	return g
}

// Position returns the vertical offset in pixels for a time of day. Times
// before the day window yield negative offsets and times past it overflow;
// nothing is clamped, so an off-window appointment still renders somewhere
// instead of silently disappearing.
func (g Geometry) Position(t appointment.TimeOfDay) float64 {
	minutesIntoWindow := t.Minutes() - g.DayStartHour*60
	return float64(minutesIntoWindow) / float64(g.SlotUnitMinutes) * float64(g.SlotPixelHeight)
}

// Span returns the rendered height of an interval. It is exactly
// Position(end) - Position(start), positive whenever end is after start.
func (g Geometry) Span(start, end appointment.TimeOfDay) float64 {
	return g.Position(end) - g.Position(start)
}

// HourMark is one ruler entry of the day view.
type HourMark struct {
	Hour   int
	Label  string
	Offset float64
}

// HourMarks returns the ruler for the visible window.
func (g Geometry) HourMarks() []HourMark {
	marks := make([]HourMark, 0, g.VisibleHours)
	for i := 0; i < g.VisibleHours; i++ {
		hour := g.DayStartHour + i
		t := appointment.NewTimeOfDay(hour, 0)
		marks = append(marks, HourMark{
			Hour:   hour,
			Label:  hourLabel(hour),
			Offset: g.Position(t),
		})
	}
	return marks
}

func hourLabel(hour int) string {
	h := hour % 24
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}
