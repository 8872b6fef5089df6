package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/pricing"
	"github.com/lapster88/anchorpoint/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound   = errors.New("trip template not found")
	ErrTemplateTitleTaken = errors.New("a template with this title already exists for the service")
)

// TemplateService manages trip templates, the editable blueprints trips are
// materialized from. Tier lists are validated on every write; trips carry
// frozen copies, so edits here never touch existing trips.
type TemplateService interface {
	Create(ctx context.Context, template *models.TripTemplate, tiers []pricing.Tier) (*models.TripTemplate, error)
	Update(ctx context.Context, templateID uint, template *models.TripTemplate, tiers []pricing.Tier) (*models.TripTemplate, error)
	// Duplicate copies a template under a "(Copy)" / "(Copy N)" title.
	Duplicate(ctx context.Context, templateID uint) (*models.TripTemplate, error)
	Get(ctx context.Context, templateID uint) (*models.TripTemplate, error)
	ListByService(ctx context.Context, serviceID uint) ([]models.TripTemplate, error)
}

type templateService struct {
	templateRepo repository.TemplateRepository
}

func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

func (s *templateService) Create(ctx context.Context, template *models.TripTemplate, tiers []pricing.Tier) (*models.TripTemplate, error) {
	if err := validateTemplate(template, tiers); err != nil {
		return nil, err
	}

	encoded, err := pricing.EncodeTiers(tiers)
	if err != nil {
		return nil, fmt.Errorf("encode tiers: %w", err)
	}
	template.PricingTiers = encoded

	err = s.templateRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.templateRepo.TitleExists(ctx, template.GuideServiceID, template.Title)
		if err != nil {
			return err
		}
		if taken {
			return ErrTemplateTitleTaken
		}
		return s.templateRepo.Create(ctx, tx, template)
	})
	if err != nil {
		return nil, err
	}
	return template, nil
}

func (s *templateService) Update(ctx context.Context, templateID uint, update *models.TripTemplate, tiers []pricing.Tier) (*models.TripTemplate, error) {
	if err := validateTemplate(update, tiers); err != nil {
		return nil, err
	}

	var result *models.TripTemplate
	err := s.templateRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		template, err := s.templateRepo.FindByID(ctx, templateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTemplateNotFound
			}
			return err
		}

		if update.Title != template.Title {
			taken, err := s.templateRepo.TitleExists(ctx, template.GuideServiceID, update.Title)
			if err != nil {
				return err
			}
			if taken {
				return ErrTemplateTitleTaken
			}
			template.Title = update.Title
		}

		template.Location = update.Location
		template.TimingMode = update.TimingMode
		template.DurationHours = update.DurationHours
		template.DurationDays = update.DurationDays
		template.PricingCurrency = update.PricingCurrency
		template.IsDepositRequired = update.IsDepositRequired
		template.DepositPercent = update.DepositPercent
		template.TargetClientsPerGuide = update.TargetClientsPerGuide
		template.Notes = update.Notes
		template.IsActive = update.IsActive

		encoded, err := pricing.EncodeTiers(tiers)
		if err != nil {
			return fmt.Errorf("encode tiers: %w", err)
		}
		template.PricingTiers = encoded

		if err := s.templateRepo.Save(ctx, tx, template); err != nil {
			return err
		}
		result = template
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *templateService) Duplicate(ctx context.Context, templateID uint) (*models.TripTemplate, error) {
	var result *models.TripTemplate

	err := s.templateRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source, err := s.templateRepo.FindByID(ctx, templateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTemplateNotFound
			}
			return err
		}

		title, err := s.copyTitle(ctx, source.GuideServiceID, source.Title)
		if err != nil {
			return err
		}

		copied := *source
		copied.ID = 0
		copied.Title = title
		copied.CreatedAt = source.CreatedAt
		copied.UpdatedAt = source.UpdatedAt
		if err := s.templateRepo.Create(ctx, tx, &copied); err != nil {
			return err
		}
		result = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// copyTitle finds the first free "<title> (Copy)" / "<title> (Copy N)" slot.
func (s *templateService) copyTitle(ctx context.Context, serviceID uint, title string) (string, error) {
	candidate := title + " (Copy)"
	for n := 2; ; n++ {
		taken, err := s.templateRepo.TitleExists(ctx, serviceID, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (Copy %d)", title, n)
	}
}

func (s *templateService) Get(ctx context.Context, templateID uint) (*models.TripTemplate, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

func (s *templateService) ListByService(ctx context.Context, serviceID uint) ([]models.TripTemplate, error) {
	return s.templateRepo.ListByService(ctx, serviceID)
}

func validateTemplate(template *models.TripTemplate, tiers []pricing.Tier) error {
	if err := validateTiming(template.TimingMode, template.DurationHours, template.DurationDays); err != nil {
		return err
	}
	if err := pricing.ValidateTiers(tiers); err != nil {
		return err
	}
	return pricing.ValidateDeposit(template.DepositPercent, template.IsDepositRequired)
}
