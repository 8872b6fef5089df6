package service

import (
	"context"
	"errors"
	"time"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrLastOwner          = errors.New("cannot deactivate the last active owner of a guide service")
)

// MembershipService manages a service's staff roster. Deactivating a guide's
// membership also unbooks them from every trip that has not yet ended, which
// cascades into assignment-block deletion through the propagator.
type MembershipService interface {
	Deactivate(ctx context.Context, membershipID uint) (*models.ServiceMembership, error)
	Activate(ctx context.Context, membershipID uint) (*models.ServiceMembership, error)
}

type membershipService struct {
	membershipRepo repository.MembershipRepository
	assignmentRepo repository.AssignmentRepository
	propagator     AvailabilityPropagator
}

func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	assignmentRepo repository.AssignmentRepository,
	propagator AvailabilityPropagator,
) MembershipService {
	return &membershipService{
		membershipRepo: membershipRepo,
		assignmentRepo: assignmentRepo,
		propagator:     propagator,
	}
}

func (s *membershipService) Deactivate(ctx context.Context, membershipID uint) (*models.ServiceMembership, error) {
	var result *models.ServiceMembership

	err := s.membershipRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		membership, err := s.membershipRepo.FindByID(ctx, tx, membershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}

		if !membership.IsActive {
			result = membership
			return nil
		}

		// 1. Last-owner guard, before any write
		if membership.Role == models.RoleOwner {
			others, err := s.membershipRepo.CountOtherActiveOwners(ctx, tx, membership.GuideServiceID, membership.ID)
			if err != nil {
				return err
			}
			if others == 0 {
				return ErrLastOwner
			}
		}

		// 2. Flip the flag
		membership.IsActive = false
		if err := s.membershipRepo.Save(ctx, tx, membership); err != nil {
			return err
		}

		// 3. Unbook future trips only; history stays intact
		future, err := s.assignmentRepo.ListFutureByGuideAndService(
			ctx, tx, membership.UserID, membership.GuideServiceID, time.Now())
		if err != nil {
			return err
		}
		for _, assignment := range future {
			if err := s.assignmentRepo.Delete(ctx, tx, assignment.ID); err != nil {
				return err
			}
			s.propagator.AssignmentDeleted(ctx, tx, assignment.TripID, assignment.GuideID)
		}

		result = membership
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *membershipService) Activate(ctx context.Context, membershipID uint) (*models.ServiceMembership, error) {
	var result *models.ServiceMembership

	err := s.membershipRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		membership, err := s.membershipRepo.FindByID(ctx, tx, membershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}

		if !membership.IsActive {
			membership.IsActive = true
			if err := s.membershipRepo.Save(ctx, tx, membership); err != nil {
				return err
			}
		}
		result = membership
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
