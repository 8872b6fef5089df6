package repository

import (
	"context"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
)

type TripRepository interface {
	Create(ctx context.Context, tx *gorm.DB, trip *models.Trip) error
	FindByID(ctx context.Context, id uint) (*models.Trip, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*models.Trip, error)
	ListByService(ctx context.Context, serviceID uint) ([]models.Trip, error)
	Save(ctx context.Context, tx *gorm.DB, trip *models.Trip) error
	UpdateTitle(ctx context.Context, tx *gorm.DB, tripID uint, title string) error
	GetDB() *gorm.DB
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *tripRepository) Create(ctx context.Context, tx *gorm.DB, trip *models.Trip) error {
	return tx.WithContext(ctx).Create(trip).Error
}

func (r *tripRepository) FindByID(ctx context.Context, id uint) (*models.Trip, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *tripRepository) FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := tx.WithContext(ctx).Preload("GuideService").First(&trip, id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListByService(ctx context.Context, serviceID uint) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.WithContext(ctx).
		Where("guide_service_id = ?", serviceID).
		Order("start ASC, id ASC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) Save(ctx context.Context, tx *gorm.DB, trip *models.Trip) error {
	return tx.WithContext(ctx).Save(trip).Error
}

func (r *tripRepository) UpdateTitle(ctx context.Context, tx *gorm.DB, tripID uint, title string) error {
	return tx.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id = ?", tripID).
		Update("title", title).Error
}
