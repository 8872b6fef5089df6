package repository

import (
	"context"
	"time"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	FindByTripAndGuide(ctx context.Context, tx *gorm.DB, tripID, guideID uint) (*models.Assignment, error)
	ListByTrip(ctx context.Context, tx *gorm.DB, tripID uint) ([]models.Assignment, error)
	// ListFutureByGuideAndService returns assignments for the guide within the
	// service whose trip has not yet ended.
	ListFutureByGuideAndService(ctx context.Context, tx *gorm.DB, guideID, serviceID uint, now time.Time) ([]models.Assignment, error)
	Save(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetDB() *gorm.DB
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *assignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	return tx.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := tx.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByTripAndGuide(ctx context.Context, tx *gorm.DB, tripID, guideID uint) (*models.Assignment, error) {
	var assignment models.Assignment
	err := tx.WithContext(ctx).
		Where("trip_id = ? AND guide_id = ?", tripID, guideID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListByTrip(ctx context.Context, tx *gorm.DB, tripID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := tx.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) ListFutureByGuideAndService(ctx context.Context, tx *gorm.DB, guideID, serviceID uint, now time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := tx.WithContext(ctx).
		Joins("JOIN trips ON trips.id = assignments.trip_id").
		Where(`assignments.guide_id = ? AND trips.guide_service_id = ? AND trips."end" > ?`, guideID, serviceID, now).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) Save(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	return tx.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Assignment{}, id).Error
}
