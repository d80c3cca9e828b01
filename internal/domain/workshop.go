package domain

import "time"

type WorkshopRole string

const (
	WorkshopMechanic  WorkshopRole = "mechanic"
	WorkshopPaint     WorkshopRole = "paint"
	WorkshopInspector WorkshopRole = "inspector"
)

// Workshop is an inspection workshop account. Opening/closing hours define
// its bookable slot catalog at a fixed one-hour granularity.
type Workshop struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	Name       string       `json:"name"`
	Phone      string       `json:"phone"`
	Address    string       `json:"address"`
	Role       WorkshopRole `json:"role"`
	Active     bool         `json:"active"`
	Certified  bool         `json:"certified"`
	VisitPrice float64      `json:"visit_price"`
	OpenTime   string       `json:"open_time"`  // "09:00"
	CloseTime  string       `json:"close_time"` // "17:00"
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
