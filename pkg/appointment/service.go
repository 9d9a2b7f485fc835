package appointment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evecal/evecal/internal/event_bus"
	"github.com/evecal/evecal/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewService(repo Repository, bus *event_bus.EventBus) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
	}
}

// CanEdit reports whether the given user may modify or delete the appointment.
// Only the owner may; this is a usability guard, the authoritative check is
// whatever fronts the deployment.
func CanEdit(appointment Appointment, u user.User) bool {
	return appointment.Owner == u.Username
}

// GetForDate returns one day's appointments: the persisted single
// appointments of that date merged with instances derived from every
// recurring template whose day set covers the date's weekday. The result is
// ordered by start time; ties keep stored appointments before derived ones.
func (s *Service) GetForDate(ctx context.Context, date time.Time) ([]Appointment, error) {
	stored, err := s.repo.GetForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}

	templates, err := s.repo.GetTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring templates: %w", err)
	}

	merged := append(stored, InstancesForDate(templates, date)...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime < merged[j].StartTime
	})
	return merged, nil
}

// Create validates and stores a new appointment owned by the acting user.
// Overlapping appointments are accepted; conflicts are a display concern.
func (s *Service) Create(ctx context.Context, draft Appointment) (*Appointment, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	draft.Owner = current.Username
	draft.Date = DateOf(draft.Date)
	draft.TemplateUID = uuid.NullUUID{}

	uid, err := s.repo.StoreAppointment(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to store appointment: %w", err)
	}
	draft.UID = uid

	s.publish(ctx, event_bus.AppointmentCreated, draft, draft.Date)

	return &draft, nil
}

// Update validates the draft and applies it to the appointment identified by
// uid. A derived-instance uid resolves to its template, so editing an
// occurrence edits the whole series; the template keeps its own literal date.
func (s *Service) Update(ctx context.Context, uid uuid.UUID, draft Appointment) (*Appointment, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	target, err := s.resolveTarget(ctx, uid, draft.Date)
	if err != nil {
		return nil, err
	}
	if !CanEdit(*target, current) {
		return nil, ErrForbidden
	}

	target.Title = draft.Title
	target.StartTime = draft.StartTime
	target.EndTime = draft.EndTime
	target.CanWatchEvee = draft.CanWatchEvee
	target.IsRecurring = draft.IsRecurring
	target.RecurrenceDays = draft.RecurrenceDays
	if !target.IsTemplate() {
		target.Date = DateOf(draft.Date)
	}

	if err := s.repo.UpdateAppointment(ctx, *target); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.publish(ctx, event_bus.AppointmentUpdated, *target, DateOf(draft.Date))

	return target, nil
}

// Delete removes the appointment identified by uid. Deleting by a
// derived-instance uid removes the underlying template and with it every
// occurrence of the series; date is the day view the uid was seen on and is
// needed to resolve virtual uids.
func (s *Service) Delete(ctx context.Context, uid uuid.UUID, date time.Time) error {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	target, err := s.resolveTarget(ctx, uid, date)
	if err != nil {
		return err
	}
	if !CanEdit(*target, current) {
		return ErrForbidden
	}

	if err := s.repo.DeleteAppointment(ctx, target.UID); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	affectedDate := DateOf(date)
	if date.IsZero() {
		affectedDate = target.Date
	}
	s.publish(ctx, event_bus.AppointmentDeleted, *target, affectedDate)

	return nil
}

// resolveTarget finds the persisted record behind a uid. When the uid is not
// stored it may be a virtual occurrence id, in which case the template whose
// expansion on the given date produced it is the target.
func (s *Service) resolveTarget(ctx context.Context, uid uuid.UUID, date time.Time) (*Appointment, error) {
	target, err := s.repo.GetAppointment(ctx, uid)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if date.IsZero() {
		return nil, ErrNotFound
	}

	templates, err := s.repo.GetTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring templates: %w", err)
	}
	for i := range templates {
		if VirtualUID(templates[i].UID, date) == uid {
			return &templates[i], nil
		}
	}
	return nil, ErrNotFound
}

// ValidateDraft checks a draft before any storage effect and reports every
// problem per field. A draft with end before (or equal to) start fails on
// end_time.
func ValidateDraft(draft Appointment) error {
	ve := newValidationError()

	if strings.TrimSpace(draft.Title) == "" {
		ve.Fields[FieldTitle] = "title is required"
	}
	if draft.Date.IsZero() {
		ve.Fields[FieldDate] = "date is required"
	}
	if draft.StartTime == TimeUnset {
		ve.Fields[FieldStartTime] = "start time is required"
	}
	if draft.EndTime == TimeUnset {
		ve.Fields[FieldEndTime] = "end time is required"
	}
	if draft.StartTime != TimeUnset && draft.EndTime != TimeUnset && draft.EndTime <= draft.StartTime {
		ve.Fields[FieldEndTime] = "end time must be after start time"
	}
	for _, day := range draft.RecurrenceDays {
		if day < 0 || day > 6 {
			ve.Fields["recurrence_days"] = "recurrence days must be between 0 (Monday) and 6 (Sunday)"
			break
		}
	}

	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, appointment Appointment, date time.Time) {
	if s.bus == nil {
		return
	}
	mutation := event_bus.AppointmentMutation{
		UID:   appointment.UID.String(),
		Title: appointment.Title,
		Owner: appointment.Owner,
		Date:  date.Format(time.DateOnly),
	}
	// Notification failures must not fail the mutation itself.
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, mutation)); err != nil {
		log.Warnf("failed to publish %s event: %v", eventType, err)
	}
}
