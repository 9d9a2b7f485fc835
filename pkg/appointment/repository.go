package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	StoreAppointment(ctx context.Context, appointment Appointment) (uuid.UUID, error)
	// GetForDate returns the persisted single appointments of one calendar
	// day, ordered by start time. Recurring templates are not included; they
	// surface through expansion only.
	GetForDate(ctx context.Context, date time.Time) ([]Appointment, error)
	// GetTemplates returns all persisted recurring templates.
	GetTemplates(ctx context.Context) ([]Appointment, error)
	GetAppointment(ctx context.Context, uid uuid.UUID) (*Appointment, error)
	UpdateAppointment(ctx context.Context, appointment Appointment) error
	DeleteAppointment(ctx context.Context, uid uuid.UUID) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const appointmentColumns = `uid, owner, title, date, start_time, end_time, can_watch_evee, is_recurring, recurrence_days`

func (r *RepositoryImpl) StoreAppointment(ctx context.Context, appointment Appointment) (uuid.UUID, error) {
	query := `INSERT INTO appointment (
                            uid,
                            owner,
                            title,
                            date,
                            start_time,
                            end_time,
                            can_watch_evee,
                            is_recurring,
                            recurrence_days
						) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return uuid.Nil, err
	}
	defer stmt.Close()

	days, err := encodeRecurrenceDays(appointment.RecurrenceDays)
	if err != nil {
		log.Error(err)
		return uuid.Nil, err
	}

	uid := uuid.New()
	_, err = stmt.ExecContext(ctx,
		uid.String(),
		appointment.Owner,
		appointment.Title,
		appointment.Date.Format(time.DateOnly),
		appointment.StartTime.Minutes(),
		appointment.EndTime.Minutes(),
		appointment.CanWatchEvee,
		appointment.IsRecurring,
		days,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return uuid.Nil, err
	}

	return uid, nil
}

func (r *RepositoryImpl) GetForDate(ctx context.Context, date time.Time) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointment
              WHERE date = ?
                AND is_recurring = FALSE
			  ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, DateOf(date).Format(time.DateOnly))
	if err != nil {
		err := fmt.Errorf("could not query appointments: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (r *RepositoryImpl) GetTemplates(ctx context.Context) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointment
              WHERE is_recurring = TRUE
			  ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query recurring templates: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (r *RepositoryImpl) GetAppointment(ctx context.Context, uid uuid.UUID) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointment WHERE uid = ?`

	row := r.db.QueryRowContext(ctx, query, uid.String())
	appointment, err := scanAppointment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not scan row: %w", err)
		log.Error(err)
		return nil, err
	}
	return &appointment, nil
}

func (r *RepositoryImpl) UpdateAppointment(ctx context.Context, appointment Appointment) error {
	query := `UPDATE appointment
              SET owner = ?, title = ?, date = ?, start_time = ?, end_time = ?,
                  can_watch_evee = ?, is_recurring = ?, recurrence_days = ?
              WHERE uid = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	days, err := encodeRecurrenceDays(appointment.RecurrenceDays)
	if err != nil {
		log.Error(err)
		return err
	}

	result, err := stmt.ExecContext(ctx,
		appointment.Owner,
		appointment.Title,
		appointment.Date.Format(time.DateOnly),
		appointment.StartTime.Minutes(),
		appointment.EndTime.Minutes(),
		appointment.CanWatchEvee,
		appointment.IsRecurring,
		days,
		appointment.UID.String(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteAppointment(ctx context.Context, uid uuid.UUID) error {
	query := `DELETE FROM appointment WHERE uid = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, uid.String())
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointments(rows *sql.Rows) ([]Appointment, error) {
	appointments := make([]Appointment, 0, 10)
	for rows.Next() {
		appointment, err := scanAppointment(rows.Scan)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	return appointments, rows.Err()
}

func scanAppointment(scan func(dest ...any) error) (Appointment, error) {
	var uidString string
	var owner string
	var title string
	var dateString string
	var startMinutes int
	var endMinutes int
	var canWatchEvee bool
	var isRecurring bool
	var daysJSON string

	if err := scan(&uidString, &owner, &title, &dateString, &startMinutes, &endMinutes, &canWatchEvee, &isRecurring, &daysJSON); err != nil {
		return Appointment{}, err
	}

	uid, err := uuid.Parse(uidString)
	if err != nil {
		return Appointment{}, fmt.Errorf("invalid uid %q: %w", uidString, err)
	}
	date, err := time.Parse(time.DateOnly, dateString)
	if err != nil {
		return Appointment{}, fmt.Errorf("invalid date %q: %w", dateString, err)
	}
	var days []int
	if err := json.Unmarshal([]byte(daysJSON), &days); err != nil {
		return Appointment{}, fmt.Errorf("invalid recurrence days %q: %w", daysJSON, err)
	}

	return Appointment{
		UID:            uid,
		Owner:          owner,
		Title:          title,
		Date:           date,
		StartTime:      TimeOfDay(startMinutes),
		EndTime:        TimeOfDay(endMinutes),
		CanWatchEvee:   canWatchEvee,
		IsRecurring:    isRecurring,
		RecurrenceDays: days,
	}, nil
}

func encodeRecurrenceDays(days []int) (string, error) {
	if days == nil {
		days = []int{}
	}
	encoded, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("could not encode recurrence days: %w", err)
	}
	return string(encoded), nil
}
