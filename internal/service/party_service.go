package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lapster88/anchorpoint/internal/gateway"
	"github.com/lapster88/anchorpoint/internal/mailer"
	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/pricing"
	"github.com/lapster88/anchorpoint/internal/repository"
	"github.com/lapster88/anchorpoint/pkg/rabbitmq"
	"gorm.io/gorm"
)

var (
	ErrPartyNotFound      = errors.New("party not found")
	ErrNoGuests           = errors.New("at least one guest is required")
	ErrGuestEmailRequired = errors.New("every guest needs an email address")
	ErrPartySizeTooSmall  = errors.New("party size cannot be below the number of attached guests")
)

// repriceableStatuses are the gateway session states a pending payment can be
// repriced in. Once the session moves past these the amount is settled.
var repriceableStatuses = map[string]bool{
	"unpaid":                  true,
	"open":                    true,
	"requires_payment_method": true,
	"pending":                 true,
}

// GuestInput is one attending guest as submitted by the booking form. The
// first guest of a party is its primary contact.
type GuestInput struct {
	Email                 string
	FirstName             string
	LastName              string
	Phone                 string
	DateOfBirth           *time.Time
	EmergencyContactName  string
	EmergencyContactPhone string
	MedicalNotes          string
	DietaryNotes          string
}

type CreatePartyInput struct {
	PartySize int
	Guests    []GuestInput
}

// CreatePartyResult bundles what the booking response needs: the raw guest
// token and checkout URL exist only here, never in storage.
type CreatePartyResult struct {
	Party       *models.TripParty
	Payment     *models.Payment
	CheckoutURL string
	GuestToken  string
}

// PartyService runs the booking lifecycle: guest upserts, party creation with
// checkout session and confirmation email in a single transaction, and later
// party-size changes with in-place repricing of the still-open payment.
type PartyService interface {
	CreateParty(ctx context.Context, tripID uint, input CreatePartyInput) (*CreatePartyResult, error)
	// UpdatePartySize grows or shrinks the party. The latest payment is
	// repriced in place while it is still pending and its checkout session has
	// not advanced; a settled payment is never touched.
	UpdatePartySize(ctx context.Context, tripID, partyID uint, size int) (*models.TripParty, error)
	GetParty(ctx context.Context, tripID, partyID uint) (*models.TripParty, error)
	ListByTrip(ctx context.Context, tripID uint) ([]models.TripParty, error)
}

type partyService struct {
	partyRepo   repository.PartyRepository
	guestRepo   repository.GuestRepository
	paymentRepo repository.PaymentRepository
	tripRepo    repository.TripRepository
	tokens      TokenService
	checkout    gateway.CheckoutClient
	sender      mailer.Sender
	publisher   *rabbitmq.Publisher
	frontendURL string
	defaultFrom string
}

func NewPartyService(
	partyRepo repository.PartyRepository,
	guestRepo repository.GuestRepository,
	paymentRepo repository.PaymentRepository,
	tripRepo repository.TripRepository,
	tokens TokenService,
	checkout gateway.CheckoutClient,
	sender mailer.Sender,
	publisher *rabbitmq.Publisher,
	frontendURL, defaultFrom string,
) PartyService {
	return &partyService{
		partyRepo:   partyRepo,
		guestRepo:   guestRepo,
		paymentRepo: paymentRepo,
		tripRepo:    tripRepo,
		tokens:      tokens,
		checkout:    checkout,
		sender:      sender,
		publisher:   publisher,
		frontendURL: frontendURL,
		defaultFrom: defaultFrom,
	}
}

func (s *partyService) CreateParty(ctx context.Context, tripID uint, input CreatePartyInput) (*CreatePartyResult, error) {
	if len(input.Guests) == 0 {
		return nil, ErrNoGuests
	}
	for _, g := range input.Guests {
		if strings.TrimSpace(g.Email) == "" {
			return nil, ErrGuestEmailRequired
		}
	}

	var result *CreatePartyResult

	err := s.partyRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.tripRepo.FindByIDTx(ctx, tx, tripID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		// 1. Upsert every guest, keyed by lower-cased email
		guests := make([]*models.GuestProfile, 0, len(input.Guests))
		for _, g := range input.Guests {
			guest := &models.GuestProfile{
				Email:                 strings.ToLower(strings.TrimSpace(g.Email)),
				FirstName:             g.FirstName,
				LastName:              g.LastName,
				Phone:                 g.Phone,
				DateOfBirth:           g.DateOfBirth,
				EmergencyContactName:  g.EmergencyContactName,
				EmergencyContactPhone: g.EmergencyContactPhone,
				MedicalNotes:          g.MedicalNotes,
				DietaryNotes:          g.DietaryNotes,
			}
			if err := s.guestRepo.Upsert(ctx, tx, guest); err != nil {
				return fmt.Errorf("upsert guest: %w", err)
			}
			guests = append(guests, guest)
		}
		primary := guests[0]

		// 2. Requested size never undercuts the named guests
		partySize := input.PartySize
		if partySize < len(guests) {
			partySize = len(guests)
		}

		// 3. The party starts with all three tracks pending
		party := &models.TripParty{
			TripID:         trip.ID,
			PrimaryGuestID: primary.ID,
			PartySize:      partySize,
			PaymentStatus:  models.PaymentPending,
			InfoStatus:     models.InfoPending,
			WaiverStatus:   models.WaiverPending,
		}
		if err := s.partyRepo.Create(ctx, tx, party); err != nil {
			return fmt.Errorf("create party: %w", err)
		}

		for i, guest := range guests {
			link := &models.TripPartyGuest{
				PartyID:   party.ID,
				GuestID:   guest.ID,
				IsPrimary: i == 0,
			}
			if err := s.partyRepo.AttachGuest(ctx, tx, link); err != nil {
				return fmt.Errorf("attach guest: %w", err)
			}
		}

		// 4. An untitled trip takes its first primary guest's name
		if trip.Title == "" {
			title := primary.FullName()
			if title == "" {
				title = primary.Email
			}
			if err := s.tripRepo.UpdateTitle(ctx, tx, trip.ID, title); err != nil {
				return err
			}
			trip.Title = title
		}

		// 5. Price off the trip's frozen snapshot
		snapshot := pricing.DecodeSnapshot(trip.PricingSnapshot)
		amountCents := pricing.SelectPricePerGuestCents(snapshot, partySize, 0) * partySize

		// 6. Open the checkout session; a gateway failure rolls all of this back
		session, err := s.checkout.CreateCheckoutSession(ctx, gateway.CheckoutContext{
			PartyID:        party.ID,
			TripID:         trip.ID,
			GuideServiceID: trip.GuideServiceID,
			TripTitle:      trip.Title,
			Currency:       snapshotCurrency(snapshot),
			StripeAccount:  stripeAccount(trip),
		}, amountCents)
		if err != nil {
			return fmt.Errorf("checkout session: %w", err)
		}

		payment := &models.Payment{
			PartyID:               party.ID,
			AmountCents:           amountCents,
			Currency:              snapshotCurrency(snapshot),
			StripeCheckoutSession: session.ID,
			StripePaymentIntent:   session.PaymentIntent,
			Status:                session.PaymentStatus,
		}
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		// 7. Multi-use portal token, valid until a day after the trip ends
		partyID := party.ID
		rawToken, _, err := s.tokens.Issue(ctx, tx, primary.ID, &partyID, false, trip.End.Add(24*time.Hour))
		if err != nil {
			return err
		}

		// 8. Confirm to every guest; delivery failure aborts the booking
		if err := s.sendConfirmations(trip, guests, session.URL, rawToken); err != nil {
			return fmt.Errorf("send confirmation: %w", err)
		}

		result = &CreatePartyResult{
			Party:       party,
			Payment:     payment,
			CheckoutURL: session.URL,
			GuestToken:  rawToken,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("party.created", result.Party)
	}
	return result, nil
}

func (s *partyService) sendConfirmations(trip *models.Trip, guests []*models.GuestProfile, paymentURL, rawToken string) error {
	serviceName := ""
	if trip.GuideService != nil {
		serviceName = trip.GuideService.Name
	}
	portalURL := fmt.Sprintf("%s/guest/%s", strings.TrimRight(s.frontendURL, "/"), rawToken)

	for _, guest := range guests {
		if guest.Email == "" {
			continue
		}
		subject, body := mailer.BookingConfirmation(
			guest.FullName(), trip.Title, serviceName, trip.Start, trip.End, paymentURL, portalURL)
		msg := mailer.Message{
			From:       mailer.FormatFrom(serviceName, s.defaultFrom),
			Recipients: []string{guest.Email},
			Subject:    subject,
			Body:       body,
		}
		if err := s.sender.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *partyService) UpdatePartySize(ctx context.Context, tripID, partyID uint, size int) (*models.TripParty, error) {
	var result *models.TripParty

	err := s.partyRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		party, err := s.partyRepo.FindByTripAndID(ctx, tripID, partyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPartyNotFound
			}
			return err
		}

		// 1. The size floor is the number of guests already attached
		guestCount, err := s.partyRepo.CountGuests(ctx, tx, party.ID)
		if err != nil {
			return err
		}
		if size < int(guestCount) {
			return ErrPartySizeTooSmall
		}

		if err := s.partyRepo.UpdatePartySize(ctx, tx, party.ID, size); err != nil {
			return err
		}
		party.PartySize = size

		// 2. Reprice the open payment in place; never issue a second one
		if party.PaymentStatus == models.PaymentPending {
			payment, err := s.paymentRepo.LatestByParty(ctx, tx, party.ID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil && repriceableStatuses[strings.ToLower(payment.Status)] {
				trip, err := s.tripRepo.FindByIDTx(ctx, tx, party.TripID)
				if err != nil {
					return err
				}
				snapshot := pricing.DecodeSnapshot(trip.PricingSnapshot)
				amountCents := pricing.SelectPricePerGuestCents(snapshot, size, 0) * size
				if err := s.paymentRepo.UpdateAmount(ctx, tx, payment.ID, amountCents); err != nil {
					return err
				}
			}
		}

		result = party
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("party.updated", result)
	}
	return result, nil
}

func (s *partyService) GetParty(ctx context.Context, tripID, partyID uint) (*models.TripParty, error) {
	party, err := s.partyRepo.FindByTripAndID(ctx, tripID, partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}
	return party, nil
}

func (s *partyService) ListByTrip(ctx context.Context, tripID uint) ([]models.TripParty, error) {
	return s.partyRepo.ListByTrip(ctx, tripID)
}

func stripeAccount(trip *models.Trip) string {
	if trip.GuideService != nil {
		return trip.GuideService.BillingStripeAccount
	}
	return ""
}

func snapshotCurrency(s *pricing.PricingSnapshot) string {
	if s == nil || s.Currency == "" {
		return pricing.DefaultCurrency
	}
	return s.Currency
}
