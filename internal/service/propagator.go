package service

import (
	"context"
	"log"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/repository"
	"gorm.io/gorm"
)

// AvailabilityPropagator mirrors assignment state onto guide calendars.
// Assignment-sourced blocks are fully derived rows: one per (guide, trip),
// created, moved and deleted here and nowhere else.
//
// Calls run synchronously inside the caller's transaction. Availability-store
// failures are logged and swallowed: an assignment must never fail because the
// calendar mirror could not be written.
type AvailabilityPropagator interface {
	AssignmentCreated(ctx context.Context, tx *gorm.DB, trip *models.Trip, guideID uint)
	AssignmentDeleted(ctx context.Context, tx *gorm.DB, tripID, guideID uint)
	TripUpdated(ctx context.Context, tx *gorm.DB, trip *models.Trip)
}

type availabilityPropagator struct {
	availabilityRepo repository.AvailabilityRepository
}

func NewAvailabilityPropagator(availabilityRepo repository.AvailabilityRepository) AvailabilityPropagator {
	return &availabilityPropagator{availabilityRepo: availabilityRepo}
}

func (p *availabilityPropagator) AssignmentCreated(ctx context.Context, tx *gorm.DB, trip *models.Trip, guideID uint) {
	tripID := trip.ID
	serviceID := trip.GuideServiceID
	block := &models.GuideAvailability{
		GuideID:        guideID,
		GuideServiceID: &serviceID,
		TripID:         &tripID,
		Start:          trip.Start,
		End:            trip.End,
		IsAvailable:    false,
		Source:         models.SourceAssignment,
		Visibility:     models.VisibilityDetail,
		Note:           "Trip assignment: " + trip.Title,
	}
	if err := p.availabilityRepo.UpsertAssignmentBlock(ctx, tx, block); err != nil {
		log.Printf("[Propagator] upsert block guide=%d trip=%d failed: %v", guideID, tripID, err)
	}
}

func (p *availabilityPropagator) AssignmentDeleted(ctx context.Context, tx *gorm.DB, tripID, guideID uint) {
	if err := p.availabilityRepo.DeleteAssignmentBlock(ctx, tx, guideID, tripID); err != nil {
		log.Printf("[Propagator] delete block guide=%d trip=%d failed: %v", guideID, tripID, err)
	}
}

func (p *availabilityPropagator) TripUpdated(ctx context.Context, tx *gorm.DB, trip *models.Trip) {
	if err := p.availabilityRepo.UpdateBlocksForTrip(ctx, tx, trip); err != nil {
		log.Printf("[Propagator] refresh blocks trip=%d failed: %v", trip.ID, err)
	}
}
