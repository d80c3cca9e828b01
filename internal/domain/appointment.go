package domain

import "time"

type AppointmentStatus string

const (
	StatusEnAttente AppointmentStatus = "en_attente"
	StatusAccepted  AppointmentStatus = "accepted"
	StatusRefused   AppointmentStatus = "refused"
	StatusEnCours   AppointmentStatus = "en_cours"
	StatusFinish    AppointmentStatus = "finish"
	StatusCancelled AppointmentStatus = "cancelled"
)

// transitions is the legal status graph. A workshop may re-open a refused
// appointment, either accepting it or putting it back in the queue.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusEnAttente: {StatusAccepted, StatusRefused},
	StatusRefused:   {StatusAccepted, StatusEnAttente},
	StatusAccepted:  {StatusEnCours},
	StatusEnCours:   {StatusFinish},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActive reports whether the status holds its time slot. Refused and
// terminal appointments release the slot.
func (s AppointmentStatus) IsActive() bool {
	return s == StatusEnAttente || s == StatusAccepted || s == StatusEnCours
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusFinish || s == StatusCancelled
}

// ActiveStatuses are the statuses counted against slot availability.
var ActiveStatuses = []AppointmentStatus{StatusEnAttente, StatusAccepted, StatusEnCours}

type Appointment struct {
	ID          int64             `json:"id"`
	WorkshopID  int64             `json:"id_workshop" validate:"required"`
	CarID       int64             `json:"id_car" validate:"required"`
	OwnerID     int64             `json:"id_owner"`
	Date        string            `json:"date" validate:"required"` // YYYY-MM-DD
	Time        string            `json:"time" validate:"required"` // slot label, e.g. "09:00"
	Status      AppointmentStatus `json:"status"`
	Images      []string          `json:"images"`
	RapportPDF  string            `json:"rapport_pdf,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
}

// HasArtifacts reports whether the inspection deliverables are attached.
// The finish transition is gated on this.
func (a *Appointment) HasArtifacts() bool {
	return len(a.Images) > 0 && a.RapportPDF != ""
}
