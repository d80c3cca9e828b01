package repository

import (
	"context"
	"encoding/json"
	"time"

	"carsure/internal/domain"

	"gorm.io/gorm"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

type carModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OwnerID   int64     `gorm:"column:owner_id;index"`
	Make      string    `gorm:"column:make"`
	Model     string    `gorm:"column:model"`
	Year      int       `gorm:"column:year"`
	Price     float64   `gorm:"column:price"`
	Status    string    `gorm:"column:status"`
	Images    []byte    `gorm:"column:images"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (carModel) TableName() string { return "cars" }

func toDomainCar(m carModel) *domain.Car {
	var images []string
	if len(m.Images) > 0 {
		_ = json.Unmarshal(m.Images, &images)
	}

	return &domain.Car{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Make:      m.Make,
		Model:     m.Model,
		Year:      m.Year,
		Price:     m.Price,
		Status:    domain.CarStatus(m.Status),
		Images:    images,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *CarRepository) Create(ctx context.Context, c *domain.Car) error {
	var images []byte
	if len(c.Images) > 0 {
		images, _ = json.Marshal(c.Images)
	}

	m := carModel{
		OwnerID: c.OwnerID,
		Make:    c.Make,
		Model:   c.Model,
		Year:    c.Year,
		Price:   c.Price,
		Status:  string(c.Status),
		Images:  images,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*c = *toDomainCar(m)
	return nil
}

func (r *CarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	var m carModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainCar(m), nil
}

func (r *CarRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Car, error) {
	var rows []carModel
	tx := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Car, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainCar(m))
	}
	return out, nil
}
