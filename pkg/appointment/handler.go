package appointment

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/evecal/evecal/internal/rest"
	"github.com/evecal/evecal/pkg/user"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

// AppointmentDTO is the wire shape of an appointment. Times are "15:04"
// strings, the date is ISO. templateUid is set on derived instances only.
type AppointmentDTO struct {
	UID            string `json:"uid"`
	TemplateUID    string `json:"templateUid,omitempty"`
	Owner          string `json:"owner"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	CanWatchEvee   bool   `json:"canWatchEvee"`
	IsRecurring    bool   `json:"isRecurring"`
	RecurrenceDays []int  `json:"recurrenceDays"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service}
}

// GetAppointments returns the expanded appointment list for one date.
func (h *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	dateString := r.URL.Query().Get("date")
	date, err := time.Parse(time.DateOnly, dateString)
	if err != nil {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid date format",
			Details: "'date' must be in 2006-01-02 format",
		})
		return
	}

	appointments, err := h.service.GetForDate(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]AppointmentDTO, 0, len(appointments))
	for _, a := range appointments {
		dtos = append(dtos, ToDTO(a))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var dto AppointmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		return
	}

	draft, verr := dtoToAppointment(dto)
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	created, err := h.service.Create(r.Context(), draft)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ToDTO(*created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	uid, ok := parseUid(w, r)
	if !ok {
		return
	}

	var dto AppointmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		return
	}

	draft, verr := dtoToAppointment(dto)
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	updated, err := h.service.Update(r.Context(), uid, draft)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	uid, ok := parseUid(w, r)
	if !ok {
		return
	}

	// date is required to resolve virtual occurrence uids to their template.
	var date time.Time
	if dateString := r.URL.Query().Get("date"); dateString != "" {
		parsed, err := time.Parse(time.DateOnly, dateString)
		if err != nil {
			writeError(w, http.StatusBadRequest, rest.ErrorResponse{
				Error:   "Invalid date format",
				Details: "'date' must be in 2006-01-02 format",
			})
			return
		}
		date = parsed
	}

	if err := h.service.Delete(r.Context(), uid, date); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseUid(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	uid, err := uuid.Parse(vars["uid"])
	if err != nil {
		writeError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error: "Invalid appointment uid",
		})
		return uuid.Nil, false
	}
	return uid, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if verr, ok := AsValidationError(err); ok {
		writeValidationError(w, verr)
		return
	}
	switch {
	case errors.Is(err, user.ErrNoUser):
		writeError(w, http.StatusUnauthorized, rest.ErrorResponse{Error: "No acting user"})
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, rest.ErrorResponse{Error: "Appointment belongs to another user"})
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, rest.ErrorResponse{Error: "Appointment not found"})
	default:
		log.Errorf("appointment request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeValidationError(w http.ResponseWriter, verr *ValidationError) {
	writeError(w, http.StatusBadRequest, rest.ErrorResponse{
		Error:  "Invalid appointment",
		Fields: verr.Fields,
	})
}

func writeError(w http.ResponseWriter, status int, body rest.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ToDTO(a Appointment) AppointmentDTO {
	dto := AppointmentDTO{
		UID:            a.UID.String(),
		Owner:          a.Owner,
		Title:          a.Title,
		Date:           a.Date.Format(time.DateOnly),
		StartTime:      a.StartTime.String(),
		EndTime:        a.EndTime.String(),
		CanWatchEvee:   a.CanWatchEvee,
		IsRecurring:    a.IsRecurring,
		RecurrenceDays: a.RecurrenceDays,
	}
	if a.TemplateUID.Valid {
		dto.TemplateUID = a.TemplateUID.UUID.String()
	}
	if dto.RecurrenceDays == nil {
		dto.RecurrenceDays = []int{}
	}
	return dto
}

// dtoToAppointment converts the wire shape into a draft. Malformed or absent
// date/time fields become field errors or unset markers; full presence and
// ordering checks happen in ValidateDraft before any storage effect.
func dtoToAppointment(dto AppointmentDTO) (Appointment, *ValidationError) {
	ve := newValidationError()
	draft := Appointment{
		Title:          dto.Title,
		CanWatchEvee:   dto.CanWatchEvee,
		IsRecurring:    dto.IsRecurring,
		RecurrenceDays: dto.RecurrenceDays,
		StartTime:      TimeUnset,
		EndTime:        TimeUnset,
	}

	if dto.Date != "" {
		date, err := time.Parse(time.DateOnly, dto.Date)
		if err != nil {
			ve.Fields[FieldDate] = "date must be in 2006-01-02 format"
		} else {
			draft.Date = date
		}
	}
	if dto.StartTime != "" {
		start, err := ParseTimeOfDay(dto.StartTime)
		if err != nil {
			ve.Fields[FieldStartTime] = "start time must be in 15:04 format"
		} else {
			draft.StartTime = start
		}
	}
	if dto.EndTime != "" {
		end, err := ParseTimeOfDay(dto.EndTime)
		if err != nil {
			ve.Fields[FieldEndTime] = "end time must be in 15:04 format"
		} else {
			draft.EndTime = end
		}
	}

	if len(ve.Fields) > 0 {
		return Appointment{}, ve
	}
	return draft, nil
}
