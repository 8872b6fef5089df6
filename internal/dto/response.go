package dto

import (
	"time"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/pricing"
)

type TripResponse struct {
	ID                    uint              `json:"id"`
	GuideServiceID        uint              `json:"guide_service_id"`
	Title                 string            `json:"title"`
	Location              string            `json:"location"`
	Start                 time.Time         `json:"start"`
	End                   time.Time         `json:"end"`
	TimingMode            models.TimingMode `json:"timing_mode"`
	DurationHours         *int              `json:"duration_hours,omitempty"`
	DurationDays          *int              `json:"duration_days,omitempty"`
	TargetClientsPerGuide *int              `json:"target_clients_per_guide,omitempty"`
	Difficulty            string            `json:"difficulty,omitempty"`
	Description           string            `json:"description,omitempty"`
	Notes                 string            `json:"notes,omitempty"`
	BasePriceCents        int               `json:"base_price_cents"`
	TemplateID            *uint             `json:"template_id,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
}

func ToTripResponse(t *models.Trip) TripResponse {
	snapshot := pricing.DecodeSnapshot(t.PricingSnapshot)
	return TripResponse{
		ID:                    t.ID,
		GuideServiceID:        t.GuideServiceID,
		Title:                 t.Title,
		Location:              t.Location,
		Start:                 t.Start,
		End:                   t.End,
		TimingMode:            t.TimingMode,
		DurationHours:         t.DurationHours,
		DurationDays:          t.DurationDays,
		TargetClientsPerGuide: t.TargetClientsPerGuide,
		Difficulty:            t.Difficulty,
		Description:           t.Description,
		Notes:                 t.Notes,
		BasePriceCents:        pricing.SnapshotBasePriceCents(snapshot, 0),
		TemplateID:            t.TemplateID,
		CreatedAt:             t.CreatedAt,
	}
}

type GuestResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

type PaymentResponse struct {
	ID                    uint      `json:"id"`
	AmountCents           int       `json:"amount_cents"`
	Currency              string    `json:"currency"`
	StripeCheckoutSession string    `json:"stripe_checkout_session"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
}

type PartyResponse struct {
	ID                  uint                 `json:"id"`
	TripID              uint                 `json:"trip_id"`
	PrimaryGuestID      uint                 `json:"primary_guest_id"`
	PartySize           int                  `json:"party_size"`
	PaymentStatus       models.PaymentStatus `json:"payment_status"`
	InfoStatus          models.InfoStatus    `json:"info_status"`
	WaiverStatus        models.WaiverStatus  `json:"waiver_status"`
	DisplayStatus       string               `json:"display_status"`
	LastGuestActivityAt *time.Time           `json:"last_guest_activity_at,omitempty"`
	Guests              []GuestResponse      `json:"guests,omitempty"`
	Payments            []PaymentResponse    `json:"payments,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
}

func ToPartyResponse(p *models.TripParty) PartyResponse {
	resp := PartyResponse{
		ID:                  p.ID,
		TripID:              p.TripID,
		PrimaryGuestID:      p.PrimaryGuestID,
		PartySize:           p.PartySize,
		PaymentStatus:       p.PaymentStatus,
		InfoStatus:          p.InfoStatus,
		WaiverStatus:        p.WaiverStatus,
		DisplayStatus:       p.DisplayStatus(),
		LastGuestActivityAt: p.LastGuestActivityAt,
		CreatedAt:           p.CreatedAt,
	}
	for _, link := range p.PartyGuests {
		if link.Guest == nil {
			continue
		}
		resp.Guests = append(resp.Guests, GuestResponse{
			ID:        link.Guest.ID,
			Email:     link.Guest.Email,
			FirstName: link.Guest.FirstName,
			LastName:  link.Guest.LastName,
			Phone:     link.Guest.Phone,
			IsPrimary: link.IsPrimary,
		})
	}
	for _, payment := range p.Payments {
		resp.Payments = append(resp.Payments, ToPaymentResponse(&payment))
	}
	return resp
}

func ToPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                    p.ID,
		AmountCents:           p.AmountCents,
		Currency:              p.Currency,
		StripeCheckoutSession: p.StripeCheckoutSession,
		Status:                p.Status,
		CreatedAt:             p.CreatedAt,
	}
}

// CreatePartyResponse is the one place the raw guest token and checkout URL
// ever leave the system.
type CreatePartyResponse struct {
	Party       PartyResponse `json:"party"`
	CheckoutURL string        `json:"checkout_url"`
	GuestToken  string        `json:"guest_token"`
}

type AssignmentResponse struct {
	ID        uint      `json:"id"`
	TripID    uint      `json:"trip_id"`
	GuideID   uint      `json:"guide_id"`
	CreatedAt time.Time `json:"created_at"`
}

func ToAssignmentResponse(a *models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.ID,
		TripID:    a.TripID,
		GuideID:   a.GuideID,
		CreatedAt: a.CreatedAt,
	}
}

type TemplateResponse struct {
	ID                    uint              `json:"id"`
	GuideServiceID        uint              `json:"guide_service_id"`
	Title                 string            `json:"title"`
	Location              string            `json:"location"`
	TimingMode            models.TimingMode `json:"timing_mode"`
	DurationHours         *int              `json:"duration_hours,omitempty"`
	DurationDays          *int              `json:"duration_days,omitempty"`
	PricingCurrency       string            `json:"pricing_currency"`
	IsDepositRequired     bool              `json:"is_deposit_required"`
	DepositPercent        string            `json:"deposit_percent"`
	Tiers                 []pricing.Tier    `json:"tiers"`
	TargetClientsPerGuide *int              `json:"target_clients_per_guide,omitempty"`
	Notes                 string            `json:"notes,omitempty"`
	IsActive              bool              `json:"is_active"`
}

func ToTemplateResponse(t *models.TripTemplate) TemplateResponse {
	tiers, _ := pricing.DecodeTiers(t.PricingTiers)
	return TemplateResponse{
		ID:                    t.ID,
		GuideServiceID:        t.GuideServiceID,
		Title:                 t.Title,
		Location:              t.Location,
		TimingMode:            t.TimingMode,
		DurationHours:         t.DurationHours,
		DurationDays:          t.DurationDays,
		PricingCurrency:       t.PricingCurrency,
		IsDepositRequired:     t.IsDepositRequired,
		DepositPercent:        t.DepositPercent,
		Tiers:                 tiers,
		TargetClientsPerGuide: t.TargetClientsPerGuide,
		Notes:                 t.Notes,
		IsActive:              t.IsActive,
	}
}

type AvailabilityResponse struct {
	ID          uint                          `json:"id"`
	GuideID     uint                          `json:"guide_id"`
	TripID      *uint                         `json:"trip_id,omitempty"`
	Start       time.Time                     `json:"start"`
	End         time.Time                     `json:"end"`
	IsAvailable bool                          `json:"is_available"`
	Source      models.AvailabilitySource     `json:"source"`
	Visibility  models.AvailabilityVisibility `json:"visibility"`
	Note        string                        `json:"note,omitempty"`
}

func ToAvailabilityResponse(b *models.GuideAvailability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:          b.ID,
		GuideID:     b.GuideID,
		TripID:      b.TripID,
		Start:       b.Start,
		End:         b.End,
		IsAvailable: b.IsAvailable,
		Source:      b.Source,
		Visibility:  b.Visibility,
		Note:        b.Note,
	}
}

type MembershipResponse struct {
	ID             uint                  `json:"id"`
	UserID         uint                  `json:"user_id"`
	GuideServiceID uint                  `json:"guide_service_id"`
	Role           models.MembershipRole `json:"role"`
	IsActive       bool                  `json:"is_active"`
}

func ToMembershipResponse(m *models.ServiceMembership) MembershipResponse {
	return MembershipResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		GuideServiceID: m.GuideServiceID,
		Role:           m.Role,
		IsActive:       m.IsActive,
	}
}

type GuestProfileResponse struct {
	ID                    uint       `json:"id"`
	Email                 string     `json:"email"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Phone                 string     `json:"phone,omitempty"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `json:"emergency_contact_phone,omitempty"`
	MedicalNotes          string     `json:"medical_notes,omitempty"`
	DietaryNotes          string     `json:"dietary_notes,omitempty"`
}

func ToGuestProfileResponse(g *models.GuestProfile) GuestProfileResponse {
	return GuestProfileResponse{
		ID:                    g.ID,
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

type ErrorResponse struct {
	Message string `json:"message"`
}
