package domain

import "time"

type CarStatus string

const (
	CarNoProcess CarStatus = "no_proccess"
	CarEnAttente CarStatus = "en_attente"
	CarActif     CarStatus = "actif"
	CarSold      CarStatus = "sold"
)

type Car struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"id_owner"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Price     float64   `json:"price"`
	Status    CarStatus `json:"status"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
