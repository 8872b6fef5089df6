package repository

import (
	"context"
	"errors"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	// UpsertAssignmentBlock performs update-or-create keyed by
	// (guide, trip, source=assignment).
	UpsertAssignmentBlock(ctx context.Context, tx *gorm.DB, block *models.GuideAvailability) error
	DeleteAssignmentBlock(ctx context.Context, tx *gorm.DB, guideID, tripID uint) error
	// UpdateBlocksForTrip refreshes every assignment-sourced block tied to the
	// trip, regardless of guide.
	UpdateBlocksForTrip(ctx context.Context, tx *gorm.DB, trip *models.Trip) error
	ListByGuide(ctx context.Context, guideID uint) ([]models.GuideAvailability, error)
	ListAssignmentBlocks(ctx context.Context, tripID uint) ([]models.GuideAvailability, error)
	Create(ctx context.Context, tx *gorm.DB, block *models.GuideAvailability) error
	GetDB() *gorm.DB
}

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *availabilityRepository) UpsertAssignmentBlock(ctx context.Context, tx *gorm.DB, block *models.GuideAvailability) error {
	var existing models.GuideAvailability
	err := tx.WithContext(ctx).
		Where("guide_id = ? AND trip_id = ? AND source = ?", block.GuideID, *block.TripID, models.SourceAssignment).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.WithContext(ctx).Create(block).Error
	}
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).
		Model(&existing).
		Updates(map[string]any{
			"guide_service_id": block.GuideServiceID,
			"start":            block.Start,
			"end":              block.End,
			"is_available":     block.IsAvailable,
			"visibility":       block.Visibility,
			"note":             block.Note,
		}).Error
}

func (r *availabilityRepository) DeleteAssignmentBlock(ctx context.Context, tx *gorm.DB, guideID, tripID uint) error {
	return tx.WithContext(ctx).
		Where("guide_id = ? AND trip_id = ? AND source = ?", guideID, tripID, models.SourceAssignment).
		Delete(&models.GuideAvailability{}).Error
}

func (r *availabilityRepository) UpdateBlocksForTrip(ctx context.Context, tx *gorm.DB, trip *models.Trip) error {
	return tx.WithContext(ctx).
		Model(&models.GuideAvailability{}).
		Where("trip_id = ? AND source = ?", trip.ID, models.SourceAssignment).
		Updates(map[string]any{
			"guide_service_id": trip.GuideServiceID,
			"start":            trip.Start,
			"end":              trip.End,
			"note":             "Trip assignment: " + trip.Title,
		}).Error
}

func (r *availabilityRepository) ListByGuide(ctx context.Context, guideID uint) ([]models.GuideAvailability, error) {
	var blocks []models.GuideAvailability
	err := r.db.WithContext(ctx).
		Where("guide_id = ?", guideID).
		Order("start ASC, id ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *availabilityRepository) ListAssignmentBlocks(ctx context.Context, tripID uint) ([]models.GuideAvailability, error) {
	var blocks []models.GuideAvailability
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND source = ?", tripID, models.SourceAssignment).
		Order("guide_id ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *availabilityRepository) Create(ctx context.Context, tx *gorm.DB, block *models.GuideAvailability) error {
	return tx.WithContext(ctx).Create(block).Error
}
