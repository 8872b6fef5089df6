package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/repository"
	"github.com/lapster88/anchorpoint/pkg/rabbitmq"
	"gorm.io/gorm"
)

var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrAlreadyAssigned  = errors.New("guide is already assigned to this trip")
	ErrGuideNotAssigned = errors.New("guide is not assigned to this trip")
	ErrDuplicateGuides  = errors.New("guide ids contain duplicates")
	ErrNotServiceGuide  = errors.New("user is not an active guide of this service")
)

// AssignmentService books guides onto trips. Every mutation also drives the
// availability propagator within the same transaction, so calendar blocks
// never drift from assignment rows.
type AssignmentService interface {
	Assign(ctx context.Context, tripID, guideID uint) (*models.Assignment, error)
	Unassign(ctx context.Context, tripID, guideID uint) error
	// Reassign moves a trip's slot from one guide to another: the old pair's
	// block is removed before the new one is written.
	Reassign(ctx context.Context, tripID, oldGuideID, newGuideID uint) (*models.Assignment, error)
	// ReplaceAssignments reconciles the trip's roster to exactly guideIDs.
	ReplaceAssignments(ctx context.Context, tripID uint, guideIDs []uint) ([]models.Assignment, error)
	ListByTrip(ctx context.Context, tripID uint) ([]models.Assignment, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	tripRepo       repository.TripRepository
	membershipRepo repository.MembershipRepository
	propagator     AvailabilityPropagator
	publisher      *rabbitmq.Publisher
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	tripRepo repository.TripRepository,
	membershipRepo repository.MembershipRepository,
	propagator AvailabilityPropagator,
	publisher *rabbitmq.Publisher,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		tripRepo:       tripRepo,
		membershipRepo: membershipRepo,
		propagator:     propagator,
		publisher:      publisher,
	}
}

func (s *assignmentService) Assign(ctx context.Context, tripID, guideID uint) (*models.Assignment, error) {
	var result *models.Assignment

	err := s.assignmentRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.tripRepo.FindByIDTx(ctx, tx, tripID)
		if err != nil {
			return ErrTripNotFound
		}

		assignment, err := s.assignGuide(ctx, tx, trip, guideID)
		if err != nil {
			return err
		}
		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("assignment.created", result)
	}
	return result, nil
}

// assignGuide validates and creates a single assignment within tx.
func (s *assignmentService) assignGuide(ctx context.Context, tx *gorm.DB, trip *models.Trip, guideID uint) (*models.Assignment, error) {
	// 1. Guide must hold an active GUIDE membership of the trip's service
	ok, err := s.membershipRepo.HasActiveRole(ctx, tx, guideID, trip.GuideServiceID, models.RoleGuide)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotServiceGuide
	}

	// 2. Reject double assignment
	_, err = s.assignmentRepo.FindByTripAndGuide(ctx, tx, trip.ID, guideID)
	if err == nil {
		return nil, ErrAlreadyAssigned
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. Create the assignment
	assignment := &models.Assignment{TripID: trip.ID, GuideID: guideID}
	if err := s.assignmentRepo.Create(ctx, tx, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	// 4. Mirror it onto the guide's calendar
	s.propagator.AssignmentCreated(ctx, tx, trip, guideID)
	return assignment, nil
}

func (s *assignmentService) Unassign(ctx context.Context, tripID, guideID uint) error {
	return s.assignmentRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignment, err := s.assignmentRepo.FindByTripAndGuide(ctx, tx, tripID, guideID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGuideNotAssigned
			}
			return err
		}

		if err := s.assignmentRepo.Delete(ctx, tx, assignment.ID); err != nil {
			return err
		}
		s.propagator.AssignmentDeleted(ctx, tx, tripID, guideID)
		return nil
	})
}

func (s *assignmentService) Reassign(ctx context.Context, tripID, oldGuideID, newGuideID uint) (*models.Assignment, error) {
	var result *models.Assignment

	err := s.assignmentRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.tripRepo.FindByIDTx(ctx, tx, tripID)
		if err != nil {
			return ErrTripNotFound
		}

		// 1. Remove the old pair first, block included
		old, err := s.assignmentRepo.FindByTripAndGuide(ctx, tx, tripID, oldGuideID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGuideNotAssigned
			}
			return err
		}
		if err := s.assignmentRepo.Delete(ctx, tx, old.ID); err != nil {
			return err
		}
		s.propagator.AssignmentDeleted(ctx, tx, tripID, oldGuideID)

		// 2. Then book the new guide
		assignment, err := s.assignGuide(ctx, tx, trip, newGuideID)
		if err != nil {
			return err
		}
		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *assignmentService) ReplaceAssignments(ctx context.Context, tripID uint, guideIDs []uint) ([]models.Assignment, error) {
	seen := make(map[uint]bool, len(guideIDs))
	for _, id := range guideIDs {
		if seen[id] {
			return nil, ErrDuplicateGuides
		}
		seen[id] = true
	}

	var result []models.Assignment
	err := s.assignmentRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.tripRepo.FindByIDTx(ctx, tx, tripID)
		if err != nil {
			return ErrTripNotFound
		}

		current, err := s.assignmentRepo.ListByTrip(ctx, tx, tripID)
		if err != nil {
			return err
		}

		// 1. Drop guides no longer on the roster
		kept := make(map[uint]bool, len(current))
		for _, assignment := range current {
			if seen[assignment.GuideID] {
				kept[assignment.GuideID] = true
				continue
			}
			if err := s.assignmentRepo.Delete(ctx, tx, assignment.ID); err != nil {
				return err
			}
			s.propagator.AssignmentDeleted(ctx, tx, tripID, assignment.GuideID)
		}

		// 2. Add the newcomers
		for _, guideID := range guideIDs {
			if kept[guideID] {
				continue
			}
			if _, err := s.assignGuide(ctx, tx, trip, guideID); err != nil {
				return err
			}
		}

		result, err = s.assignmentRepo.ListByTrip(ctx, tx, tripID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("assignment.replaced", map[string]any{
			"trip_id":   tripID,
			"guide_ids": guideIDs,
		})
	}
	return result, nil
}

func (s *assignmentService) ListByTrip(ctx context.Context, tripID uint) ([]models.Assignment, error) {
	return s.assignmentRepo.ListByTrip(ctx, s.assignmentRepo.GetDB(), tripID)
}
