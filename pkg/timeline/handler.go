package timeline

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/evecal/evecal/internal/rest"
	"github.com/evecal/evecal/pkg/appointment"
	"github.com/evecal/evecal/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service  *Service
	sessions *SessionRegistry
}

type DayViewDTO struct {
	Date string `json:"date"`
	// Stale marks a view served from the session cache after a failed fetch.
	Stale  bool          `json:"stale"`
	Hours  []HourMarkDTO `json:"hours"`
	Blocks []BlockDTO    `json:"blocks"`
}

type HourMarkDTO struct {
	Hour   int     `json:"hour"`
	Label  string  `json:"label"`
	Offset float64 `json:"offset"`
}

type BlockDTO struct {
	Appointment appointment.AppointmentDTO `json:"appointment"`
	Top         float64                    `json:"top"`
	Height      float64                    `json:"height"`
	Conflict    bool                       `json:"conflict"`
}

type NavigateDTO struct {
	// Direction is "prev" or "next"; alternatively an explicit Date wins.
	Direction string `json:"direction,omitempty"`
	Date      string `json:"date,omitempty"`
}

func NewHandler(service *Service, sessions *SessionRegistry) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
	}
}

// GetDayView returns the laid-out view for an explicit date and makes it the
// session's selection.
func (h *Handler) GetDayView(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFor(w, r)
	if !ok {
		return
	}

	dateString := r.URL.Query().Get("date")
	date, err := time.Parse(time.DateOnly, dateString)
	if err != nil {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid date format",
			Details: "'date' must be in 2006-01-02 format",
		})
		return
	}

	h.serveSelected(w, r, session, session.Select(date))
}

// GetCurrentDayView returns the view for the session's current selection.
func (h *Handler) GetCurrentDayView(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFor(w, r)
	if !ok {
		return
	}
	h.serveSelected(w, r, session, session.Selected())
}

// Navigate moves the selection one day back or forward, or to an explicit
// date, and returns the new day's view.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFor(w, r)
	if !ok {
		return
	}

	var nav NavigateDTO
	if err := json.NewDecoder(r.Body).Decode(&nav); err != nil {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		return
	}

	var selected time.Time
	switch {
	case nav.Date != "":
		date, err := time.Parse(time.DateOnly, nav.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, rest.ErrorResponse{
				Error:   "Invalid date format",
				Details: "'date' must be in 2006-01-02 format",
			})
			return
		}
		selected = session.Select(date)
	case nav.Direction == "prev":
		selected = session.PrevDay()
	case nav.Direction == "next":
		selected = session.NextDay()
	default:
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error: "Either direction (prev/next) or date is required",
		})
		return
	}

	h.serveSelected(w, r, session, selected)
}

// serveSelected fetches the view for the selected date and applies it to the
// session. A fetch failure falls back to the last applied view, marked stale,
// so the day view degrades to stale-but-visible instead of going blank.
func (h *Handler) serveSelected(w http.ResponseWriter, r *http.Request, session *Session, date time.Time) {
	view, err := h.service.DayView(r.Context(), date)
	if err != nil {
		log.Errorf("failed to load day view for %s: %v", date.Format(time.DateOnly), err)
		if last, ok := session.View(); ok {
			writeDayView(w, http.StatusOK, dayViewToDTO(last, true))
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !session.Apply(view) {
		// Selection moved while the fetch was in flight; serve what the
		// session currently holds instead of the superseded result.
		if last, ok := session.View(); ok {
			writeDayView(w, http.StatusOK, dayViewToDTO(last, true))
			return
		}
	}

	writeDayView(w, http.StatusOK, dayViewToDTO(view, false))
}

func (h *Handler) sessionFor(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	current, err := user.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, rest.ErrorResponse{Error: "No acting user"})
		return nil, false
	}
	return h.sessions.ForUser(current.Id), true
}

func writeDayView(w http.ResponseWriter, status int, dto DayViewDTO) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, body rest.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func dayViewToDTO(view *DayView, stale bool) DayViewDTO {
	hours := make([]HourMarkDTO, 0, len(view.Hours))
	for _, mark := range view.Hours {
		hours = append(hours, HourMarkDTO{
			Hour:   mark.Hour,
			Label:  mark.Label,
			Offset: mark.Offset,
		})
	}
	blocks := make([]BlockDTO, 0, len(view.Blocks))
	for _, block := range view.Blocks {
		blocks = append(blocks, BlockDTO{
			Appointment: appointment.ToDTO(block.Appointment),
			Top:         block.Top,
			Height:      block.Height,
			Conflict:    block.Conflict,
		})
	}
	return DayViewDTO{
		Date:   view.Date.Format(time.DateOnly),
		Stale:  stale,
		Hours:  hours,
		Blocks: blocks,
	}
}
