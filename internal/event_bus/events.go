package event_bus

const (
	AppointmentCreated EventType = "appointment.created"
	AppointmentUpdated EventType = "appointment.updated"
	AppointmentDeleted EventType = "appointment.deleted"
)

// AppointmentMutation is the fact forwarded to notification subscribers after
// a successful create, update, or delete: who changed which day's calendar.
type AppointmentMutation struct {
	UID   string
	Title string
	// Owner is the username of the user the appointment belongs to.
	Owner string
	// Date is the affected calendar day in ISO format (2006-01-02).
	Date string
}
