package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/pricing"
	"github.com/lapster88/anchorpoint/internal/repository"
	"github.com/lapster88/anchorpoint/pkg/rabbitmq"
	"gorm.io/gorm"
)

var (
	ErrTemplateInactive     = errors.New("trip template is inactive")
	ErrTemplateOtherService = errors.New("trip template belongs to another guide service")
	ErrPriceRequired        = errors.New("price_cents is required when no template is given")
	ErrInvalidTiming        = errors.New("timing mode and duration do not match")
)

// CreateTripInput carries everything a trip can be created from. TemplateID
// and PriceCents are mutually exclusive pricing sources; exactly one must be
// usable.
type CreateTripInput struct {
	GuideServiceID        uint
	Title                 string
	Location              string
	Start                 time.Time
	TimingMode            models.TimingMode
	DurationHours         *int
	DurationDays          *int
	TargetClientsPerGuide *int
	Difficulty            string
	Description           string
	Notes                 string
	TemplateID            *uint
	PriceCents            *int
	GuideIDs              []uint
}

// UpdateTripInput holds partial trip edits; nil fields are left untouched.
type UpdateTripInput struct {
	Title                 *string
	Location              *string
	Start                 *time.Time
	TimingMode            *models.TimingMode
	DurationHours         *int
	DurationDays          *int
	TargetClientsPerGuide *int
	Difficulty            *string
	Description           *string
	Notes                 *string
	// PriceCents re-freezes the trip's snapshot as a single open-ended tier.
	PriceCents *int
}

// TripService creates and edits trips. Template materialization freezes the
// template's tiers into the trip's pricing snapshot at creation time; schedule
// edits push through the availability propagator in the same transaction.
type TripService interface {
	CreateTrip(ctx context.Context, input CreateTripInput) (*models.Trip, error)
	UpdateTrip(ctx context.Context, tripID uint, input UpdateTripInput) (*models.Trip, error)
	GetTrip(ctx context.Context, tripID uint) (*models.Trip, error)
	ListTrips(ctx context.Context, serviceID uint) ([]models.Trip, error)
}

type tripService struct {
	tripRepo     repository.TripRepository
	templateRepo repository.TemplateRepository
	assignments  AssignmentService
	propagator   AvailabilityPropagator
	publisher    *rabbitmq.Publisher
}

func NewTripService(
	tripRepo repository.TripRepository,
	templateRepo repository.TemplateRepository,
	assignments AssignmentService,
	propagator AvailabilityPropagator,
	publisher *rabbitmq.Publisher,
) TripService {
	return &tripService{
		tripRepo:     tripRepo,
		templateRepo: templateRepo,
		assignments:  assignments,
		propagator:   propagator,
		publisher:    publisher,
	}
}

func (s *tripService) CreateTrip(ctx context.Context, input CreateTripInput) (*models.Trip, error) {
	trip := &models.Trip{
		GuideServiceID:        input.GuideServiceID,
		Title:                 input.Title,
		Location:              input.Location,
		Start:                 input.Start,
		TimingMode:            input.TimingMode,
		DurationHours:         input.DurationHours,
		DurationDays:          input.DurationDays,
		TargetClientsPerGuide: input.TargetClientsPerGuide,
		Difficulty:            input.Difficulty,
		Description:           input.Description,
		Notes:                 input.Notes,
	}

	if input.TemplateID != nil {
		if err := s.materializeTemplate(ctx, trip, *input.TemplateID); err != nil {
			return nil, err
		}
	} else {
		if input.PriceCents == nil {
			return nil, ErrPriceRequired
		}
		snapshot := pricing.BuildSingleTierSnapshot(*input.PriceCents)
		encoded, err := snapshot.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		trip.PricingSnapshot = encoded
	}

	if err := validateTiming(trip.TimingMode, trip.DurationHours, trip.DurationDays); err != nil {
		return nil, err
	}
	trip.End = computeEnd(trip.Start, trip.TimingMode, trip.DurationHours, trip.DurationDays)

	err := s.tripRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.tripRepo.Create(ctx, tx, trip)
	})
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	if len(input.GuideIDs) > 0 {
		if _, err := s.assignments.ReplaceAssignments(ctx, trip.ID, input.GuideIDs); err != nil {
			return nil, err
		}
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("trip.created", trip)
	}
	return trip, nil
}

// materializeTemplate fills trip defaults from the template and freezes its
// tiers into the trip's pricing snapshot.
func (s *tripService) materializeTemplate(ctx context.Context, trip *models.Trip, templateID uint) error {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	if template.GuideServiceID != trip.GuideServiceID {
		return ErrTemplateOtherService
	}
	if !template.IsActive {
		return ErrTemplateInactive
	}

	// 1. Copy title/location only when the caller left them blank
	if trip.Title == "" {
		trip.Title = template.Title
	}
	if trip.Location == "" {
		trip.Location = template.Location
	}

	// 2. Timing, ratio and notes default from the template
	if trip.TimingMode == "" {
		trip.TimingMode = template.TimingMode
		trip.DurationHours = template.DurationHours
		trip.DurationDays = template.DurationDays
	}
	if trip.TargetClientsPerGuide == nil {
		trip.TargetClientsPerGuide = template.TargetClientsPerGuide
	}
	if trip.Notes == "" {
		trip.Notes = template.Notes
	}

	// 3. Freeze the tiers, re-deriving cents so the snapshot is self-contained
	tiers, err := pricing.DecodeTiers(template.PricingTiers)
	if err != nil {
		return err
	}
	snapshot := pricing.PricingSnapshot{
		Currency:          template.PricingCurrency,
		IsDepositRequired: template.IsDepositRequired,
		DepositPercent:    template.DepositPercent,
		Tiers:             pricing.RederiveCents(tiers),
	}
	encoded, err := snapshot.Encode()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	trip.PricingSnapshot = encoded

	templateSnapshot, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("encode template snapshot: %w", err)
	}
	trip.TemplateID = &template.ID
	trip.TemplateSnapshot = templateSnapshot
	return nil
}

func (s *tripService) UpdateTrip(ctx context.Context, tripID uint, input UpdateTripInput) (*models.Trip, error) {
	var result *models.Trip
	rescheduled := false

	err := s.tripRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.tripRepo.FindByIDTx(ctx, tx, tripID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		if input.Title != nil && *input.Title != trip.Title {
			trip.Title = *input.Title
			rescheduled = true
		}
		if input.Location != nil {
			trip.Location = *input.Location
		}
		if input.Difficulty != nil {
			trip.Difficulty = *input.Difficulty
		}
		if input.Description != nil {
			trip.Description = *input.Description
		}
		if input.Notes != nil {
			trip.Notes = *input.Notes
		}
		if input.TargetClientsPerGuide != nil {
			trip.TargetClientsPerGuide = input.TargetClientsPerGuide
		}

		// 1. Schedule edits: recompute end under the (possibly new) timing mode
		if input.Start != nil || input.TimingMode != nil || input.DurationHours != nil || input.DurationDays != nil {
			if input.Start != nil {
				trip.Start = *input.Start
			}
			if input.TimingMode != nil {
				trip.TimingMode = *input.TimingMode
			}
			if input.DurationHours != nil {
				trip.DurationHours = input.DurationHours
				if trip.TimingMode == models.TimingSingleDay {
					trip.DurationDays = nil
				}
			}
			if input.DurationDays != nil {
				trip.DurationDays = input.DurationDays
				if trip.TimingMode == models.TimingMultiDay {
					trip.DurationHours = nil
				}
			}
			if err := validateTiming(trip.TimingMode, trip.DurationHours, trip.DurationDays); err != nil {
				return err
			}
			trip.End = computeEnd(trip.Start, trip.TimingMode, trip.DurationHours, trip.DurationDays)
			rescheduled = true
		}

		// 2. A direct price edit re-freezes the snapshot as a single tier
		if input.PriceCents != nil {
			snapshot := pricing.BuildSingleTierSnapshot(*input.PriceCents)
			encoded, err := snapshot.Encode()
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			trip.PricingSnapshot = encoded
		}

		if err := s.tripRepo.Save(ctx, tx, trip); err != nil {
			return err
		}

		// 3. Keep every guide's assignment block in step with the trip
		if rescheduled {
			s.propagator.TripUpdated(ctx, tx, trip)
		}

		result = trip
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rescheduled && s.publisher != nil {
		_ = s.publisher.Publish("trip.rescheduled", result)
	}
	return result, nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID uint) (*models.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (s *tripService) ListTrips(ctx context.Context, serviceID uint) ([]models.Trip, error) {
	return s.tripRepo.ListByService(ctx, serviceID)
}

// validateTiming enforces the timing-mode pairing: single-day outings carry a
// positive hour count, multi-day ones a positive day count, never both.
func validateTiming(mode models.TimingMode, hours, days *int) error {
	switch mode {
	case models.TimingSingleDay:
		if hours == nil || *hours <= 0 || days != nil {
			return ErrInvalidTiming
		}
	case models.TimingMultiDay:
		if days == nil || *days <= 0 || hours != nil {
			return ErrInvalidTiming
		}
	default:
		return ErrInvalidTiming
	}
	return nil
}

func computeEnd(start time.Time, mode models.TimingMode, hours, days *int) time.Time {
	if mode == models.TimingSingleDay && hours != nil {
		return start.Add(time.Duration(*hours) * time.Hour)
	}
	if days != nil {
		return start.AddDate(0, 0, *days)
	}
	return start
}
