package repository

import (
	"context"
	"time"

	"carsure/internal/domain"

	"gorm.io/gorm"
)

type WorkshopRepository struct {
	db *gorm.DB
}

func NewWorkshopRepository(db *gorm.DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

type workshopModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	UserID     int64     `gorm:"column:user_id;index"`
	Name       string    `gorm:"column:name"`
	Phone      string    `gorm:"column:phone"`
	Address    string    `gorm:"column:address"`
	Role       string    `gorm:"column:role"`
	Active     bool      `gorm:"column:active"`
	Certified  bool      `gorm:"column:certified"`
	VisitPrice float64   `gorm:"column:visit_price"`
	OpenTime   string    `gorm:"column:open_time"`
	CloseTime  string    `gorm:"column:close_time"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (workshopModel) TableName() string { return "workshops" }

func toDomainWorkshop(m workshopModel) *domain.Workshop {
	return &domain.Workshop{
		ID:         m.ID,
		UserID:     m.UserID,
		Name:       m.Name,
		Phone:      m.Phone,
		Address:    m.Address,
		Role:       domain.WorkshopRole(m.Role),
		Active:     m.Active,
		Certified:  m.Certified,
		VisitPrice: m.VisitPrice,
		OpenTime:   m.OpenTime,
		CloseTime:  m.CloseTime,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *WorkshopRepository) Create(ctx context.Context, w *domain.Workshop) error {
	m := workshopModel{
		UserID:     w.UserID,
		Name:       w.Name,
		Phone:      w.Phone,
		Address:    w.Address,
		Role:       string(w.Role),
		Active:     w.Active,
		Certified:  w.Certified,
		VisitPrice: w.VisitPrice,
		OpenTime:   w.OpenTime,
		CloseTime:  w.CloseTime,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*w = *toDomainWorkshop(m)
	return nil
}

func (r *WorkshopRepository) GetByID(ctx context.Context, id int64) (*domain.Workshop, error) {
	var m workshopModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainWorkshop(m), nil
}

// GetByUserID resolves the workshop attached to an authenticated account.
func (r *WorkshopRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Workshop, error) {
	var m workshopModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainWorkshop(m), nil
}

func (r *WorkshopRepository) ListActive(ctx context.Context) ([]domain.Workshop, error) {
	var rows []workshopModel
	tx := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Workshop, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainWorkshop(m))
	}
	return out, nil
}
