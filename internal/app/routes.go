package app

import (
	"github.com/evecal/evecal/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Appointments
	r.HandleFunc("/api/appointments", deps.AppointmentHandler.GetAppointments).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/appointments", deps.AppointmentHandler.CreateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/{uid}", deps.AppointmentHandler.UpdateAppointment).Methods("PUT")
	r.HandleFunc("/api/appointments/{uid}", deps.AppointmentHandler.DeleteAppointment).Methods("DELETE")

	// Timeline day view
	r.HandleFunc("/api/timeline", deps.TimelineHandler.GetDayView).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/timeline/current", deps.TimelineHandler.GetCurrentDayView).Methods("GET")
	r.HandleFunc("/api/timeline/navigate", deps.TimelineHandler.Navigate).Methods("POST")

	// Push notifications
	r.HandleFunc("/api/notifications/public-key", deps.NotifierHandler.PublicKey).Methods("GET")
	r.HandleFunc("/api/notifications/subscriptions", deps.NotifierHandler.Subscribe).Methods("POST")
	r.HandleFunc("/api/notifications/subscriptions/{id}", deps.NotifierHandler.Unsubscribe).Methods("DELETE")

	// Users
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.ListUsers).Methods("GET")
}
