package repository

import (
	"context"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(ctx context.Context, tx *gorm.DB, template *models.TripTemplate) error
	FindByID(ctx context.Context, id uint) (*models.TripTemplate, error)
	ListByService(ctx context.Context, serviceID uint) ([]models.TripTemplate, error)
	TitleExists(ctx context.Context, serviceID uint, title string) (bool, error)
	Save(ctx context.Context, tx *gorm.DB, template *models.TripTemplate) error
	GetDB() *gorm.DB
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *templateRepository) Create(ctx context.Context, tx *gorm.DB, template *models.TripTemplate) error {
	return tx.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) FindByID(ctx context.Context, id uint) (*models.TripTemplate, error) {
	var template models.TripTemplate
	if err := r.db.WithContext(ctx).First(&template, id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) ListByService(ctx context.Context, serviceID uint) ([]models.TripTemplate, error) {
	var templates []models.TripTemplate
	err := r.db.WithContext(ctx).
		Where("guide_service_id = ?", serviceID).
		Order("title ASC, id ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) TitleExists(ctx context.Context, serviceID uint, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TripTemplate{}).
		Where("guide_service_id = ? AND title = ?", serviceID, title).
		Count(&count).Error
	return count > 0, err
}

func (r *templateRepository) Save(ctx context.Context, tx *gorm.DB, template *models.TripTemplate) error {
	return tx.WithContext(ctx).Save(template).Error
}
