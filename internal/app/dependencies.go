package app

import (
	"database/sql"

	"github.com/evecal/evecal/internal/config"
	"github.com/evecal/evecal/internal/event_bus"
	"github.com/evecal/evecal/internal/utils"
	"github.com/evecal/evecal/pkg/appointment"
	"github.com/evecal/evecal/pkg/notifier"
	"github.com/evecal/evecal/pkg/timeline"
	"github.com/evecal/evecal/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	AppointmentRepo    appointment.Repository
	AppointmentService *appointment.Service
	AppointmentHandler *appointment.Handler

	TimelineService  *timeline.Service
	TimelineSessions *timeline.SessionRegistry
	TimelineHandler  *timeline.Handler

	NotifierRepo    notifier.Repository
	NotifierService *notifier.Service
	NotifierHandler *notifier.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewRosterService(cfg.Users)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.AppointmentRepo = appointment.NewRepository(db)
	deps.AppointmentService = appointment.NewService(deps.AppointmentRepo, deps.Bus)
	deps.AppointmentHandler = appointment.NewHandler(deps.AppointmentService)

	deps.TimelineService = timeline.NewService(deps.AppointmentService, timeline.GeometryFromConfig(cfg.Calendar))
	deps.TimelineSessions = timeline.NewSessionRegistry(deps.Clock)
	deps.TimelineHandler = timeline.NewHandler(deps.TimelineService, deps.TimelineSessions)

	deps.NotifierRepo = notifier.NewRepository(db)
	deps.NotifierService = notifier.NewService(deps.NotifierRepo, notifier.NewWebPushPusher(cfg.WebPush))
	deps.NotifierService.RegisterOnBus(deps.Bus)
	deps.NotifierHandler = notifier.NewHandler(deps.NotifierService, cfg.WebPush)

	return deps
}
