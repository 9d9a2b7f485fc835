package appointment

import (
	"time"

	"github.com/google/uuid"
)

// VirtualUID derives the uid of a template's occurrence on a given date.
// It is deterministic in (templateUID, date), so repeated expansions yield
// identical instances and the UI can address an occurrence for click-to-edit
// without colliding across dates.
func VirtualUID(templateUID uuid.UUID, date time.Time) uuid.UUID {
	return uuid.NewSHA1(templateUID, []byte(DateOf(date).Format(time.DateOnly)))
}

// InstancesForDate materializes derived appointments from recurring templates
// for one date. A template produces an instance exactly when the date's
// weekday is in its RecurrenceDays; the template's own literal date never
// gates or forces expansion. Templates with an empty day set simply produce
// nothing.
func InstancesForDate(templates []Appointment, date time.Time) []Appointment {
	day := WeekdayIndex(date)
	instances := make([]Appointment, 0, len(templates))
	for _, tpl := range templates {
		if !containsDay(tpl.RecurrenceDays, day) {
			continue
		}
		instance := tpl
		instance.UID = VirtualUID(tpl.UID, date)
		instance.TemplateUID = uuid.NullUUID{UUID: tpl.UID, Valid: true}
		instance.Date = DateOf(date)
		instance.RecurrenceDays = append([]int(nil), tpl.RecurrenceDays...)
		instances = append(instances, instance)
	}
	return instances
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
