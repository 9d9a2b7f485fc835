package appointment

import (
	"sort"

	"github.com/google/uuid"
)

// DetectOverlaps returns the uids of every appointment whose half-open
// [start, end) interval intersects at least one other appointment in the
// list. Overlap is cross-user: appointments of different owners conflict the
// same way, which is what the double-booking flag exists for. Touching
// endpoints (one ends exactly when the next starts) do not count.
//
// Pairwise comparison is fine here: the input is one day's appointments for
// two users.
func DetectOverlaps(appointments []Appointment) map[uuid.UUID]struct{} {
	flagged := make(map[uuid.UUID]struct{})
	if len(appointments) < 2 {
		return flagged
	}

	sorted := make([]Appointment, len(appointments))
	copy(sorted, appointments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			// sorted[j] starts at or after sorted[i]; once it starts at or
			// past sorted[i]'s end, no later appointment can overlap i either.
			if sorted[j].StartTime >= sorted[i].EndTime {
				break
			}
			flagged[sorted[i].UID] = struct{}{}
			flagged[sorted[j].UID] = struct{}{}
		}
	}

	return flagged
}
