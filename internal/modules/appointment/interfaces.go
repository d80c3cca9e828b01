package appointment

import (
	"context"

	"carsure/internal/domain"
)

// AppointmentStore is the persistence surface of the appointment service.
type AppointmentStore interface {
	Create(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Appointment, error)
	ListByWorkshop(ctx context.Context, workshopID int64) ([]domain.Appointment, error)
	ListByCar(ctx context.Context, carID int64) ([]domain.Appointment, error)
	TakenTimes(ctx context.Context, workshopID int64, date string) ([]string, error)
	UpdateStatusIf(ctx context.Context, id int64, from, to domain.AppointmentStatus) (bool, error)
	UpdateImages(ctx context.Context, id int64, images []string) error
	UpdatePDF(ctx context.Context, id int64, url string) error
	ListExpired(ctx context.Context, before string, ownerID int64) ([]domain.Appointment, error)
}

type WorkshopStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Workshop, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Workshop, error)
}

type CarStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
}

// Notifier is the fan-out side effect of transitions and expiry.
type Notifier interface {
	NotifyRdvCreated(ctx context.Context, workshopUserID, ownerID, rdvID, carID, workshopID int64, date, slot string) error
	NotifyRdvAccepted(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64, date, slot string) error
	NotifyRdvRefused(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64) error
	NotifyRdvReopened(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64) error
	NotifyRdvStarted(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64) error
	NotifyRdvFinished(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64) error
	NotifyRdvCancelled(ctx context.Context, recipientID, rdvID, carID, workshopID int64, date, slot string) error
}
