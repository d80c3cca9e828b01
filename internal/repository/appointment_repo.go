package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"carsure/internal/domain"

	"gorm.io/gorm"
)

// ErrSlotTaken is returned when the requested (workshop, date, time) slot is
// already held by an appointment in an active status.
var ErrSlotTaken = errors.New("slot already taken")

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type appointmentModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	WorkshopID  int64      `gorm:"column:workshop_id;index:idx_rdv_slot"`
	CarID       int64      `gorm:"column:car_id;index"`
	OwnerID     int64      `gorm:"column:owner_id;index"`
	Date        string     `gorm:"column:date;index:idx_rdv_slot"`
	Time        string     `gorm:"column:time;index:idx_rdv_slot"`
	Status      string     `gorm:"column:status;index"`
	Images      []byte     `gorm:"column:images"`
	RapportPDF  *string    `gorm:"column:rapport_pdf"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (appointmentModel) TableName() string { return "rdv_workshops" }

func toDomainAppointment(m appointmentModel) *domain.Appointment {
	var images []string
	if len(m.Images) > 0 {
		_ = json.Unmarshal(m.Images, &images)
	}

	var pdf string
	if m.RapportPDF != nil {
		pdf = *m.RapportPDF
	}

	return &domain.Appointment{
		ID:          m.ID,
		WorkshopID:  m.WorkshopID,
		CarID:       m.CarID,
		OwnerID:     m.OwnerID,
		Date:        m.Date,
		Time:        m.Time,
		Status:      domain.AppointmentStatus(m.Status),
		Images:      images,
		RapportPDF:  pdf,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CancelledAt: m.CancelledAt,
	}
}

func toAppointmentModel(a *domain.Appointment) appointmentModel {
	var images []byte
	if len(a.Images) > 0 {
		images, _ = json.Marshal(a.Images)
	}

	var pdf *string
	if a.RapportPDF != "" {
		v := a.RapportPDF
		pdf = &v
	}

	return appointmentModel{
		ID:          a.ID,
		WorkshopID:  a.WorkshopID,
		CarID:       a.CarID,
		OwnerID:     a.OwnerID,
		Date:        a.Date,
		Time:        a.Time,
		Status:      string(a.Status),
		Images:      images,
		RapportPDF:  pdf,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		CancelledAt: a.CancelledAt,
	}
}

func activeStatusStrings() []string {
	out := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

// Create inserts the appointment after re-checking slot freedom inside the
// same transaction, so two concurrent bookings for one slot cannot both
// succeed. The partial unique index (see Migrate) backs this up on postgres.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	m := toAppointmentModel(a)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&appointmentModel{}).
			Where("workshop_id = ? AND date = ? AND time = ? AND status IN ?",
				m.WorkshopID, m.Date, m.Time, activeStatusStrings()).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrSlotTaken
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return err
	}

	*a = *toDomainAppointment(m)
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var m appointmentModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAppointment(m), nil
}

func (r *AppointmentRepository) list(ctx context.Context, cond string, args ...any) ([]domain.Appointment, error) {
	var rows []appointmentModel
	tx := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("date DESC, time DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

func (r *AppointmentRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Appointment, error) {
	return r.list(ctx, "owner_id = ?", ownerID)
}

func (r *AppointmentRepository) ListByWorkshop(ctx context.Context, workshopID int64) ([]domain.Appointment, error) {
	return r.list(ctx, "workshop_id = ?", workshopID)
}

func (r *AppointmentRepository) ListByCar(ctx context.Context, carID int64) ([]domain.Appointment, error) {
	return r.list(ctx, "car_id = ?", carID)
}

// TakenTimes returns the slot labels held by active appointments on a date.
func (r *AppointmentRepository) TakenTimes(ctx context.Context, workshopID int64, date string) ([]string, error) {
	var times []string
	tx := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("workshop_id = ? AND date = ? AND status IN ?", workshopID, date, activeStatusStrings()).
		Order("time ASC").
		Pluck("time", &times)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return times, nil
}

// UpdateStatusIf performs a compare-and-swap on status. It reports false when
// the row was concurrently moved away from the expected status.
func (r *AppointmentRepository) UpdateStatusIf(ctx context.Context, id int64, from, to domain.AppointmentStatus) (bool, error) {
	updates := map[string]any{"status": string(to), "updated_at": time.Now()}
	if to == domain.StatusCancelled {
		now := time.Now()
		updates["cancelled_at"] = &now
	}

	res := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentRepository) UpdateImages(ctx context.Context, id int64, images []string) error {
	raw, err := json.Marshal(images)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ?", id).
		Update("images", raw)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AppointmentRepository) UpdatePDF(ctx context.Context, id int64, url string) error {
	res := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ?", id).
		Update("rapport_pdf", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListExpired returns appointments dated strictly before the given day that
// are still en_attente or accepted. ownerID 0 scans all owners.
func (r *AppointmentRepository) ListExpired(ctx context.Context, before string, ownerID int64) ([]domain.Appointment, error) {
	q := r.db.WithContext(ctx).
		Where("date < ? AND status IN ?", before,
			[]string{string(domain.StatusEnAttente), string(domain.StatusAccepted)})
	if ownerID != 0 {
		q = q.Where("owner_id = ?", ownerID)
	}

	var rows []appointmentModel
	if err := q.Order("date ASC, time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}
