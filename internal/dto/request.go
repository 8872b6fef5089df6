package dto

import (
	"time"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/pricing"
	"github.com/lapster88/anchorpoint/internal/service"
)

type CreateTripRequest struct {
	GuideServiceID        uint              `json:"guide_service_id" validate:"required"`
	Title                 string            `json:"title"`
	Location              string            `json:"location"`
	Start                 time.Time         `json:"start" validate:"required"`
	TimingMode            models.TimingMode `json:"timing_mode"`
	DurationHours         *int              `json:"duration_hours"`
	DurationDays          *int              `json:"duration_days"`
	TargetClientsPerGuide *int              `json:"target_clients_per_guide"`
	Difficulty            string            `json:"difficulty"`
	Description           string            `json:"description"`
	Notes                 string            `json:"notes"`
	TemplateID            *uint             `json:"template_id"`
	PriceCents            *int              `json:"price_cents"`
	GuideIDs              []uint            `json:"guide_ids"`
}

func (r *CreateTripRequest) ToInput() service.CreateTripInput {
	return service.CreateTripInput{
		GuideServiceID:        r.GuideServiceID,
		Title:                 r.Title,
		Location:              r.Location,
		Start:                 r.Start,
		TimingMode:            r.TimingMode,
		DurationHours:         r.DurationHours,
		DurationDays:          r.DurationDays,
		TargetClientsPerGuide: r.TargetClientsPerGuide,
		Difficulty:            r.Difficulty,
		Description:           r.Description,
		Notes:                 r.Notes,
		TemplateID:            r.TemplateID,
		PriceCents:            r.PriceCents,
		GuideIDs:              r.GuideIDs,
	}
}

type UpdateTripRequest struct {
	Title                 *string            `json:"title"`
	Location              *string            `json:"location"`
	Start                 *time.Time         `json:"start"`
	TimingMode            *models.TimingMode `json:"timing_mode"`
	DurationHours         *int               `json:"duration_hours"`
	DurationDays          *int               `json:"duration_days"`
	TargetClientsPerGuide *int               `json:"target_clients_per_guide"`
	Difficulty            *string            `json:"difficulty"`
	Description           *string            `json:"description"`
	Notes                 *string            `json:"notes"`
	PriceCents            *int               `json:"price_cents"`
}

func (r *UpdateTripRequest) ToInput() service.UpdateTripInput {
	return service.UpdateTripInput{
		Title:                 r.Title,
		Location:              r.Location,
		Start:                 r.Start,
		TimingMode:            r.TimingMode,
		DurationHours:         r.DurationHours,
		DurationDays:          r.DurationDays,
		TargetClientsPerGuide: r.TargetClientsPerGuide,
		Difficulty:            r.Difficulty,
		Description:           r.Description,
		Notes:                 r.Notes,
		PriceCents:            r.PriceCents,
	}
}

type GuestPayload struct {
	Email                 string     `json:"email" validate:"required,email"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Phone                 string     `json:"phone"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	EmergencyContactName  string     `json:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone"`
	MedicalNotes          string     `json:"medical_notes"`
	DietaryNotes          string     `json:"dietary_notes"`
}

type CreatePartyRequest struct {
	PartySize int            `json:"party_size"`
	Guests    []GuestPayload `json:"guests" validate:"required,min=1"`
}

func (r *CreatePartyRequest) ToInput() service.CreatePartyInput {
	guests := make([]service.GuestInput, len(r.Guests))
	for i, g := range r.Guests {
		guests[i] = service.GuestInput{
			Email:                 g.Email,
			FirstName:             g.FirstName,
			LastName:              g.LastName,
			Phone:                 g.Phone,
			DateOfBirth:           g.DateOfBirth,
			EmergencyContactName:  g.EmergencyContactName,
			EmergencyContactPhone: g.EmergencyContactPhone,
			MedicalNotes:          g.MedicalNotes,
			DietaryNotes:          g.DietaryNotes,
		}
	}
	return service.CreatePartyInput{PartySize: r.PartySize, Guests: guests}
}

type UpdatePartySizeRequest struct {
	PartySize int `json:"party_size" validate:"required,gt=0"`
}

type ReplaceGuidesRequest struct {
	GuideIDs []uint `json:"guide_ids"`
}

type TierPayload struct {
	MinGuests     int    `json:"min_guests"`
	MaxGuests     *int   `json:"max_guests"`
	PricePerGuest string `json:"price_per_guest"`
}

type TemplateRequest struct {
	GuideServiceID        uint              `json:"guide_service_id"`
	Title                 string            `json:"title" validate:"required"`
	Location              string            `json:"location"`
	TimingMode            models.TimingMode `json:"timing_mode"`
	DurationHours         *int              `json:"duration_hours"`
	DurationDays          *int              `json:"duration_days"`
	PricingCurrency       string            `json:"pricing_currency"`
	IsDepositRequired     bool              `json:"is_deposit_required"`
	DepositPercent        string            `json:"deposit_percent"`
	Tiers                 []TierPayload     `json:"tiers" validate:"required,min=1"`
	TargetClientsPerGuide *int              `json:"target_clients_per_guide"`
	Notes                 string            `json:"notes"`
	IsActive              *bool             `json:"is_active"`
}

func (r *TemplateRequest) ToModel() *models.TripTemplate {
	currency := r.PricingCurrency
	if currency == "" {
		currency = pricing.DefaultCurrency
	}
	percent := r.DepositPercent
	if percent == "" {
		percent = "0"
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.TripTemplate{
		GuideServiceID:        r.GuideServiceID,
		Title:                 r.Title,
		Location:              r.Location,
		TimingMode:            r.TimingMode,
		DurationHours:         r.DurationHours,
		DurationDays:          r.DurationDays,
		PricingCurrency:       currency,
		IsDepositRequired:     r.IsDepositRequired,
		DepositPercent:        percent,
		TargetClientsPerGuide: r.TargetClientsPerGuide,
		Notes:                 r.Notes,
		IsActive:              active,
	}
}

func (r *TemplateRequest) ToTiers() []pricing.Tier {
	tiers := make([]pricing.Tier, len(r.Tiers))
	for i, t := range r.Tiers {
		tiers[i] = pricing.Tier{
			MinGuests:     t.MinGuests,
			MaxGuests:     t.MaxGuests,
			PricePerGuest: t.PricePerGuest,
		}
	}
	return tiers
}

type GuestProfileUpdateRequest struct {
	FirstName             *string    `json:"first_name"`
	LastName              *string    `json:"last_name"`
	Phone                 *string    `json:"phone"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	EmergencyContactName  *string    `json:"emergency_contact_name"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone"`
	MedicalNotes          *string    `json:"medical_notes"`
	DietaryNotes          *string    `json:"dietary_notes"`
}

func (r *GuestProfileUpdateRequest) ToUpdate() service.GuestProfileUpdate {
	return service.GuestProfileUpdate{
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Phone:                 r.Phone,
		DateOfBirth:           r.DateOfBirth,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		MedicalNotes:          r.MedicalNotes,
		DietaryNotes:          r.DietaryNotes,
	}
}
