package appointment

type CreateRequest struct {
	WorkshopID int64  `json:"id_workshop" validate:"required"`
	CarID      int64  `json:"id_car" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Time       string `json:"time" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Availability is the payload of the available-times endpoint.
type Availability struct {
	AvailableTimes   []string `json:"availableTimes"`
	UnavailableTimes []string `json:"unavailableTimes"`
}
