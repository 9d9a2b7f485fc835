package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/evecal/evecal/internal/test_utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) *RepositoryImpl {
	db := test_utils.SetupTestDB(t)
	return NewRepository(db)
}

func TestRepository_StoreAndGet(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	appointment := Appointment{
		Owner:          "u1",
		Title:          "Grooming",
		Date:           wednesday,
		StartTime:      NewTimeOfDay(9, 0),
		EndTime:        NewTimeOfDay(10, 30),
		CanWatchEvee:   true,
		IsRecurring:    true,
		RecurrenceDays: []int{0, 2, 4},
	}

	uid, err := repo.StoreAppointment(ctx, appointment)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, uid)

	stored, err := repo.GetAppointment(ctx, uid)
	require.NoError(t, err)

	assert.Equal(t, uid, stored.UID)
	assert.Equal(t, "u1", stored.Owner)
	assert.Equal(t, "Grooming", stored.Title)
	assert.Equal(t, wednesday, stored.Date)
	assert.Equal(t, NewTimeOfDay(9, 0), stored.StartTime)
	assert.Equal(t, NewTimeOfDay(10, 30), stored.EndTime)
	assert.True(t, stored.CanWatchEvee)
	assert.True(t, stored.IsRecurring)
	assert.Equal(t, []int{0, 2, 4}, stored.RecurrenceDays)
}

func TestRepository_GetForDate(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	later := Appointment{Owner: "u1", Title: "Afternoon", Date: wednesday,
		StartTime: NewTimeOfDay(14, 0), EndTime: NewTimeOfDay(15, 0)}
	earlier := Appointment{Owner: "u2", Title: "Morning", Date: wednesday,
		StartTime: NewTimeOfDay(8, 0), EndTime: NewTimeOfDay(9, 0)}
	otherDay := Appointment{Owner: "u1", Title: "Other day", Date: thursday,
		StartTime: NewTimeOfDay(8, 0), EndTime: NewTimeOfDay(9, 0)}
	template := Appointment{Owner: "u1", Title: "Series", Date: wednesday,
		StartTime: NewTimeOfDay(8, 0), EndTime: NewTimeOfDay(9, 0),
		IsRecurring: true, RecurrenceDays: []int{2}}

	for _, a := range []Appointment{later, earlier, otherDay, template} {
		_, err := repo.StoreAppointment(ctx, a)
		require.NoError(t, err)
	}

	appointments, err := repo.GetForDate(ctx, wednesday)
	require.NoError(t, err)

	// Only the date's single appointments, ordered by start time. The
	// recurring template surfaces through GetTemplates instead.
	require.Len(t, appointments, 2)
	assert.Equal(t, "Morning", appointments[0].Title)
	assert.Equal(t, "Afternoon", appointments[1].Title)

	templates, err := repo.GetTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Series", templates[0].Title)
}

func TestRepository_Update(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	uid, err := repo.StoreAppointment(ctx, Appointment{
		Owner: "u1", Title: "Before", Date: wednesday,
		StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(10, 0),
	})
	require.NoError(t, err)

	err = repo.UpdateAppointment(ctx, Appointment{
		UID: uid, Owner: "u1", Title: "After", Date: thursday,
		StartTime: NewTimeOfDay(11, 0), EndTime: NewTimeOfDay(12, 0),
		CanWatchEvee: true,
	})
	require.NoError(t, err)

	stored, err := repo.GetAppointment(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "After", stored.Title)
	assert.Equal(t, thursday, stored.Date)
	assert.Equal(t, NewTimeOfDay(11, 0), stored.StartTime)
	assert.True(t, stored.CanWatchEvee)
}

func TestRepository_UpdateUnknownUid(t *testing.T) {
	repo := setupTestRepository(t)

	err := repo.UpdateAppointment(context.Background(), Appointment{
		UID: uuid.New(), Owner: "u1", Title: "Ghost", Date: wednesday,
		StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(10, 0),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	uid, err := repo.StoreAppointment(ctx, Appointment{
		Owner: "u1", Title: "Doomed", Date: wednesday,
		StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(10, 0),
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAppointment(ctx, uid))

	_, err = repo.GetAppointment(ctx, uid)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.DeleteAppointment(ctx, uid), ErrNotFound)
}

func TestRepository_EmptyRecurrenceDaysRoundTrip(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	uid, err := repo.StoreAppointment(ctx, Appointment{
		Owner: "u1", Title: "Degenerate series", Date: wednesday,
		StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(10, 0),
		IsRecurring: true,
	})
	require.NoError(t, err)

	stored, err := repo.GetAppointment(ctx, uid)
	require.NoError(t, err)
	assert.True(t, stored.IsRecurring)
	assert.Empty(t, stored.RecurrenceDays)

	// A "recurs on no day" template still expands to nothing without error.
	assert.Empty(t, InstancesForDate([]Appointment{*stored}, wednesday))
}

func TestRepository_DateRoundTripKeepsDay(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	// Late-evening local timestamps must not shift the stored day.
	local := time.Date(2026, 1, 7, 23, 30, 0, 0, time.Local)
	uid, err := repo.StoreAppointment(ctx, Appointment{
		Owner: "u1", Title: "Late entry", Date: DateOf(local),
		StartTime: NewTimeOfDay(23, 0), EndTime: NewTimeOfDay(23, 45),
	})
	require.NoError(t, err)

	stored, err := repo.GetAppointment(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, wednesday, stored.Date)
}
