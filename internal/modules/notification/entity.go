package notification

import (
	"encoding/json"
	"time"
)

// Type categorizes a notification. The frontend routes navigation on this
// field, so it is set authoritatively at creation time and never inferred
// from the message text.
type Type string

const (
	TypeRdvCreated   Type = "rdv_created"   // workshop: a seller booked a slot
	TypeRdvAccepted  Type = "rdv_accepted"  // owner: workshop accepted
	TypeRdvRefused   Type = "rdv_refused"   // owner: workshop refused
	TypeRdvReopened  Type = "rdv_reopened"  // owner: refused appointment back in queue
	TypeRdvStarted   Type = "rdv_started"   // owner: inspection in progress
	TypeRdvFinished  Type = "rdv_finished"  // owner: inspection report ready
	TypeRdvCancelled Type = "rdv_cancelled" // both: stale appointment cancelled
	TypeAdminWarning Type = "admin_warning" // any: administrative notice
)

type Notification struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	SenderID  int64           `json:"sender_id,omitempty"`
	Type      Type            `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}
