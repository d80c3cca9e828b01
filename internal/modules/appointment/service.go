package appointment

import (
	"context"
	"errors"
	"log"
	"time"

	"carsure/internal/domain"
	"carsure/internal/pkg/validator"
	"carsure/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	slotLayout = "15:04"

	defaultOpenTime  = "09:00"
	defaultCloseTime = "17:00"
)

type Service struct {
	rdvs      AppointmentStore
	workshops WorkshopStore
	cars      CarStore
	notifs    Notifier
}

func NewService(rdvs AppointmentStore, workshops WorkshopStore, cars CarStore, notifs Notifier) *Service {
	return &Service{
		rdvs:      rdvs,
		workshops: workshops,
		cars:      cars,
		notifs:    notifs,
	}
}

// slotCatalog builds the bookable slot labels for a workshop: one-hour slots
// from opening to closing time. Unset or broken hours fall back to the
// default 09:00-17:00 schedule.
func slotCatalog(w *domain.Workshop) []string {
	openStr, closeStr := w.OpenTime, w.CloseTime
	if openStr == "" || closeStr == "" {
		openStr, closeStr = defaultOpenTime, defaultCloseTime
	}

	open, err1 := time.Parse(slotLayout, openStr)
	close, err2 := time.Parse(slotLayout, closeStr)
	if err1 != nil || err2 != nil || !close.After(open) {
		open, _ = time.Parse(slotLayout, defaultOpenTime)
		close, _ = time.Parse(slotLayout, defaultCloseTime)
	}

	var slots []string
	for cur := open; cur.Before(close); cur = cur.Add(time.Hour) {
		slots = append(slots, cur.Format(slotLayout))
	}
	return slots
}

func isPastDate(date time.Time) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return date.Before(today)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// AvailableTimes partitions the workshop's slot catalog for a date into free
// and taken slots. A past date or an inactive workshop books nothing, so the
// whole catalog is reported unavailable.
func (s *Service) AvailableTimes(ctx context.Context, workshopID int64, dateStr string) (*Availability, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, validationErr("date must be formatted YYYY-MM-DD")
	}

	w, err := s.workshops.GetByID(ctx, workshopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	catalog := slotCatalog(w)

	if !w.Active || isPastDate(date) {
		return &Availability{
			AvailableTimes:   []string{},
			UnavailableTimes: catalog,
		}, nil
	}

	taken, err := s.rdvs.TakenTimes(ctx, workshopID, dateStr)
	if err != nil {
		return nil, err
	}

	available := make([]string, 0, len(catalog))
	unavailable := make([]string, 0, len(taken))
	for _, slot := range catalog {
		if contains(taken, slot) {
			unavailable = append(unavailable, slot)
		} else {
			available = append(available, slot)
		}
	}

	return &Availability{
		AvailableTimes:   available,
		UnavailableTimes: unavailable,
	}, nil
}

// Create books a slot for the caller's car. Slot freedom is re-checked inside
// the insert transaction; a concurrent booking for the same slot surfaces as
// a SlotConflictError carrying the fresh unavailable list.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*domain.Appointment, error) {
	if msgs := validator.Validate(req); msgs != nil {
		return nil, &ValidationError{Messages: msgs}
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, validationErr("date must be formatted YYYY-MM-DD")
	}
	if isPastDate(date) {
		return nil, validationErr("date must not be in the past")
	}

	car, err := s.cars.GetByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	w, err := s.workshops.GetByID(ctx, req.WorkshopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !w.Active {
		return nil, ErrWorkshopInactive
	}

	if !contains(slotCatalog(w), req.Time) {
		return nil, validationErr("time is not a bookable slot for this workshop")
	}

	a := &domain.Appointment{
		WorkshopID: req.WorkshopID,
		CarID:      req.CarID,
		OwnerID:    ownerID,
		Date:       req.Date,
		Time:       req.Time,
		Status:     domain.StatusEnAttente,
	}

	if err := s.rdvs.Create(ctx, a); err != nil {
		if isSlotConflict(err) {
			return nil, s.slotConflict(ctx, req.WorkshopID, req.Date)
		}
		return nil, err
	}

	// Fan-out is best-effort; the appointment is already durable.
	if s.notifs != nil {
		if err := s.notifs.NotifyRdvCreated(ctx, w.UserID, ownerID, a.ID, a.CarID, a.WorkshopID, a.Date, a.Time); err != nil {
			log.Printf("rdv %d: created notification failed: %v", a.ID, err)
		}
	}

	return a, nil
}

func isSlotConflict(err error) bool {
	if errors.Is(err, repository.ErrSlotTaken) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_slot_exclusive"
	}
	return false
}

func (s *Service) slotConflict(ctx context.Context, workshopID int64, date string) error {
	taken, err := s.rdvs.TakenTimes(ctx, workshopID, date)
	if err != nil {
		taken = []string{}
	}
	return &SlotConflictError{UnavailableTimes: taken}
}

func (s *Service) ListForOwner(ctx context.Context, ownerID int64) ([]domain.Appointment, error) {
	return s.rdvs.ListByOwner(ctx, ownerID)
}

// ListForWorkshopUser resolves the workshop bound to the authenticated
// account and returns its appointments.
func (s *Service) ListForWorkshopUser(ctx context.Context, userID int64) ([]domain.Appointment, error) {
	w, err := s.workshops.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return s.rdvs.ListByWorkshop(ctx, w.ID)
}

// ListForCar returns the car's appointment history. Only the car's owner or
// an admin may read it.
func (s *Service) ListForCar(ctx context.Context, callerID int64, callerRole string, carID int64) ([]domain.Appointment, error) {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if car.OwnerID != callerID && callerRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.rdvs.ListByCar(ctx, carID)
}

// GetForActor fetches an appointment and enforces read authorization: the
// owning seller, the assigned workshop account, or an admin.
func (s *Service) GetForActor(ctx context.Context, actorID int64, actorRole string, id int64) (*domain.Appointment, error) {
	a, err := s.rdvs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if actorRole == string(domain.RoleAdmin) || a.OwnerID == actorID {
		return a, nil
	}

	w, err := s.workshops.GetByID(ctx, a.WorkshopID)
	if err == nil && w.UserID == actorID {
		return a, nil
	}
	return nil, ErrForbidden
}

// UpdateStatus walks the appointment along the status graph. Only the
// assigned workshop account may act; the write is a compare-and-swap so a
// racing transition loses cleanly instead of clobbering.
func (s *Service) UpdateStatus(ctx context.Context, actorUserID int64, id int64, newStatusStr string) (*domain.Appointment, error) {
	newStatus := domain.AppointmentStatus(newStatusStr)
	switch newStatus {
	case domain.StatusEnAttente, domain.StatusAccepted, domain.StatusRefused,
		domain.StatusEnCours, domain.StatusFinish:
	default:
		return nil, validationErr("unknown status: " + newStatusStr)
	}

	a, err := s.rdvs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	w, err := s.workshops.GetByID(ctx, a.WorkshopID)
	if err != nil {
		return nil, err
	}
	if w.UserID != actorUserID {
		return nil, ErrForbidden
	}

	if !domain.CanTransition(a.Status, newStatus) {
		return nil, ErrInvalidTransition
	}
	if newStatus == domain.StatusFinish && !a.HasArtifacts() {
		return nil, ErrArtifactsMissing
	}

	swapped, err := s.rdvs.UpdateStatusIf(ctx, id, a.Status, newStatus)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrInvalidTransition
	}

	from := a.Status
	a.Status = newStatus

	if s.notifs != nil {
		var notifErr error
		switch {
		case newStatus == domain.StatusAccepted:
			notifErr = s.notifs.NotifyRdvAccepted(ctx, a.OwnerID, actorUserID, a.ID, a.CarID, a.WorkshopID, a.Date, a.Time)
		case newStatus == domain.StatusRefused:
			notifErr = s.notifs.NotifyRdvRefused(ctx, a.OwnerID, actorUserID, a.ID, a.CarID, a.WorkshopID)
		case newStatus == domain.StatusEnAttente && from == domain.StatusRefused:
			notifErr = s.notifs.NotifyRdvReopened(ctx, a.OwnerID, actorUserID, a.ID, a.CarID, a.WorkshopID)
		case newStatus == domain.StatusEnCours:
			notifErr = s.notifs.NotifyRdvStarted(ctx, a.OwnerID, actorUserID, a.ID, a.CarID, a.WorkshopID)
		case newStatus == domain.StatusFinish:
			notifErr = s.notifs.NotifyRdvFinished(ctx, a.OwnerID, actorUserID, a.ID, a.CarID, a.WorkshopID)
		}
		if notifErr != nil {
			log.Printf("rdv %d: %s notification failed: %v", a.ID, newStatus, notifErr)
		}
	}

	return a, nil
}

// AttachImages records inspection photo URLs on the appointment. Only the
// assigned workshop may attach, and only while the inspection is running.
// Attaching does not change the status.
func (s *Service) AttachImages(ctx context.Context, actorUserID, id int64, urls []string) (*domain.Appointment, error) {
	a, err := s.authorizeArtifact(ctx, actorUserID, id)
	if err != nil {
		return nil, err
	}

	images := append(a.Images, urls...)
	if err := s.rdvs.UpdateImages(ctx, id, images); err != nil {
		return nil, err
	}

	a.Images = images
	return a, nil
}

// AttachPDF records the inspection report URL. Same rules as AttachImages.
func (s *Service) AttachPDF(ctx context.Context, actorUserID, id int64, url string) (*domain.Appointment, error) {
	a, err := s.authorizeArtifact(ctx, actorUserID, id)
	if err != nil {
		return nil, err
	}

	if err := s.rdvs.UpdatePDF(ctx, id, url); err != nil {
		return nil, err
	}

	a.RapportPDF = url
	return a, nil
}

func (s *Service) authorizeArtifact(ctx context.Context, actorUserID, id int64) (*domain.Appointment, error) {
	a, err := s.rdvs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	w, err := s.workshops.GetByID(ctx, a.WorkshopID)
	if err != nil {
		return nil, err
	}
	if w.UserID != actorUserID {
		return nil, ErrForbidden
	}

	if a.Status != domain.StatusEnCours {
		return nil, validationErr("artifacts can only be attached while the inspection is in progress")
	}
	return a, nil
}
