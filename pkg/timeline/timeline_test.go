package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/evecal/evecal/internal/utils"
	"github.com/evecal/evecal/pkg/appointment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tuesday   = time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
)

// fakeReader serves a fixed appointment list per date and can be switched to
// fail, standing in for the appointment service.
type fakeReader struct {
	byDate map[string][]appointment.Appointment
	err    error
	calls  int
}

func (f *fakeReader) GetForDate(ctx context.Context, date time.Time) ([]appointment.Appointment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byDate[date.Format(time.DateOnly)], nil
}

func makeTimed(owner string, start, end appointment.TimeOfDay) appointment.Appointment {
	return appointment.Appointment{
		UID:       uuid.New(),
		Owner:     owner,
		Title:     "Block",
		Date:      wednesday,
		StartTime: start,
		EndTime:   end,
	}
}

func TestService_DayView_Layout(t *testing.T) {
	a := makeTimed("u1", appointment.NewTimeOfDay(9, 0), appointment.NewTimeOfDay(10, 0))
	b := makeTimed("u2", appointment.NewTimeOfDay(9, 30), appointment.NewTimeOfDay(10, 30))
	c := makeTimed("u2", appointment.NewTimeOfDay(14, 0), appointment.NewTimeOfDay(15, 0))

	reader := &fakeReader{byDate: map[string][]appointment.Appointment{
		"2026-01-07": {a, b, c},
	}}
	service := NewService(reader, DefaultGeometry())

	view, err := service.DayView(context.Background(), wednesday)
	require.NoError(t, err)

	assert.Equal(t, wednesday, view.Date)
	assert.Len(t, view.Hours, 18)
	require.Len(t, view.Blocks, 3)

	first := view.Blocks[0]
	assert.Equal(t, a.UID, first.Appointment.UID)
	assert.InDelta(t, 270, first.Top, 1e-9)
	assert.InDelta(t, 90, first.Height, 1e-9)
	assert.True(t, first.Conflict)

	assert.True(t, view.Blocks[1].Conflict)
	assert.False(t, view.Blocks[2].Conflict)
}

func TestService_DayView_EmptyDay(t *testing.T) {
	service := NewService(&fakeReader{}, DefaultGeometry())

	view, err := service.DayView(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Empty(t, view.Blocks)
	assert.Len(t, view.Hours, 18)
}

func TestService_DayView_FetchError(t *testing.T) {
	service := NewService(&fakeReader{err: assert.AnError}, DefaultGeometry())

	_, err := service.DayView(context.Background(), wednesday)
	assert.Error(t, err)
}

func TestSession_Navigation(t *testing.T) {
	clock := &utils.MockClock{FixedNow: wednesday.Add(14 * time.Hour)}
	session := NewSession(clock)

	// A session starts on today's date, normalized to midnight.
	assert.Equal(t, wednesday, session.Selected())

	assert.Equal(t, tuesday, session.PrevDay())
	assert.Equal(t, wednesday, session.NextDay())
	assert.Equal(t, tuesday, session.Select(tuesday.Add(9*time.Hour)))
}

func TestSession_StaleViewDiscarded(t *testing.T) {
	clock := &utils.MockClock{FixedNow: wednesday}
	session := NewSession(clock)

	// A fetch for Wednesday starts, then the user navigates to Tuesday
	// before the result arrives.
	inFlight := &DayView{Date: wednesday}
	session.Select(tuesday)

	assert.False(t, session.Apply(inFlight))
	_, ok := session.View()
	assert.False(t, ok)

	// The result matching the selection is applied.
	current := &DayView{Date: tuesday}
	assert.True(t, session.Apply(current))

	got, ok := session.View()
	require.True(t, ok)
	assert.Equal(t, current, got)
}

func TestSession_LateResultDoesNotOverwriteNewerView(t *testing.T) {
	clock := &utils.MockClock{FixedNow: wednesday}
	session := NewSession(clock)

	wednesdayView := &DayView{Date: wednesday}
	require.True(t, session.Apply(wednesdayView))

	// Navigate to Tuesday, apply its view, then the slow Wednesday refetch
	// finally lands.
	session.Select(tuesday)
	tuesdayView := &DayView{Date: tuesday}
	require.True(t, session.Apply(tuesdayView))

	assert.False(t, session.Apply(&DayView{Date: wednesday}))

	got, ok := session.View()
	require.True(t, ok)
	assert.Equal(t, tuesdayView, got)
}

func TestSessionRegistry_OneSessionPerUser(t *testing.T) {
	registry := NewSessionRegistry(&utils.MockClock{FixedNow: wednesday})

	one := registry.ForUser(1)
	two := registry.ForUser(2)

	assert.NotSame(t, one, two)
	assert.Same(t, one, registry.ForUser(1))

	// Navigation in one session leaves the other untouched.
	one.NextDay()
	assert.Equal(t, wednesday, two.Selected())
}
