package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lapster88/anchorpoint/internal/gateway"
	"github.com/lapster88/anchorpoint/internal/mailer"
	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/pricing"
	"github.com/lapster88/anchorpoint/internal/repository"
	"github.com/lapster88/anchorpoint/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func intPtr(n int) *int { return &n }

func seedService(t *testing.T, db *gorm.DB) *models.GuideService {
	t.Helper()
	svc := &models.GuideService{
		Name: "North Fork Anglers",
		Slug: "north-fork-" + uuid.NewString()[:8],
	}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

func seedGuide(t *testing.T, db *gorm.DB, serviceID uint) (*models.User, *models.ServiceMembership) {
	t.Helper()
	user := &models.User{
		Email:     uuid.NewString()[:8] + "@guides.test",
		FirstName: "Casey",
		LastName:  "Rivers",
	}
	require.NoError(t, db.Create(user).Error)
	membership := &models.ServiceMembership{
		UserID:         user.ID,
		GuideServiceID: serviceID,
		Role:           models.RoleGuide,
		IsActive:       true,
	}
	require.NoError(t, db.Create(membership).Error)
	return user, membership
}

func seedOwner(t *testing.T, db *gorm.DB, serviceID uint) (*models.User, *models.ServiceMembership) {
	t.Helper()
	user := &models.User{Email: uuid.NewString()[:8] + "@owners.test"}
	require.NoError(t, db.Create(user).Error)
	membership := &models.ServiceMembership{
		UserID:         user.ID,
		GuideServiceID: serviceID,
		Role:           models.RoleOwner,
		IsActive:       true,
	}
	require.NoError(t, db.Create(membership).Error)
	return user, membership
}

// seedTrip creates a multi-day trip with the $150/1-2, $130/3+ tier snapshot.
func seedTrip(t *testing.T, db *gorm.DB, serviceID uint, start time.Time) *models.Trip {
	t.Helper()
	snapshot := pricing.PricingSnapshot{
		Currency:       "usd",
		DepositPercent: "0",
		Tiers: []pricing.Tier{
			{MinGuests: 1, MaxGuests: intPtr(2), PricePerGuest: "150.00", PricePerGuestCents: intPtr(15000)},
			{MinGuests: 3, MaxGuests: nil, PricePerGuest: "130.00", PricePerGuestCents: intPtr(13000)},
		},
	}
	raw, err := snapshot.Encode()
	require.NoError(t, err)

	days := 3
	trip := &models.Trip{
		GuideServiceID:  serviceID,
		Title:           "Salmon River Float",
		Location:        "Salmon River",
		Start:           start,
		End:             start.AddDate(0, 0, days),
		TimingMode:      models.TimingMultiDay,
		DurationDays:    &days,
		PricingSnapshot: raw,
	}
	require.NoError(t, db.Create(trip).Error)
	return trip
}

type testEnv struct {
	db               *gorm.DB
	tripRepo         repository.TripRepository
	templateRepo     repository.TemplateRepository
	assignmentRepo   repository.AssignmentRepository
	availabilityRepo repository.AvailabilityRepository
	membershipRepo   repository.MembershipRepository
	partyRepo        repository.PartyRepository
	guestRepo        repository.GuestRepository
	paymentRepo      repository.PaymentRepository
	tokenRepo        repository.TokenRepository
	propagator       AvailabilityPropagator
	checkout         *fakeCheckout
	sender           *fakeSender

	tokens      TokenService
	assignments AssignmentService
	memberships MembershipService
	templates   TemplateService
	trips       TripService
	parties     PartyService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	env := &testEnv{
		db:               db,
		tripRepo:         repository.NewTripRepository(db),
		templateRepo:     repository.NewTemplateRepository(db),
		assignmentRepo:   repository.NewAssignmentRepository(db),
		availabilityRepo: repository.NewAvailabilityRepository(db),
		membershipRepo:   repository.NewMembershipRepository(db),
		partyRepo:        repository.NewPartyRepository(db),
		guestRepo:        repository.NewGuestRepository(db),
		paymentRepo:      repository.NewPaymentRepository(db),
		tokenRepo:        repository.NewTokenRepository(db),
		checkout:         &fakeCheckout{},
		sender:           &fakeSender{},
	}
	env.propagator = NewAvailabilityPropagator(env.availabilityRepo)
	env.tokens = NewTokenService(env.tokenRepo, env.guestRepo, env.partyRepo)
	env.assignments = NewAssignmentService(env.assignmentRepo, env.tripRepo, env.membershipRepo, env.propagator, nil)
	env.memberships = NewMembershipService(env.membershipRepo, env.assignmentRepo, env.propagator)
	env.templates = NewTemplateService(env.templateRepo)
	env.trips = NewTripService(env.tripRepo, env.templateRepo, env.assignments, env.propagator, nil)
	env.parties = NewPartyService(env.partyRepo, env.guestRepo, env.paymentRepo, env.tripRepo,
		env.tokens, env.checkout, env.sender, nil, "http://frontend.test", "bookings@anchorpoint.test")
	return env
}

// fakeCheckout records sessions and can be told to fail.
type fakeCheckout struct {
	fail     bool
	sessions []int
}

func (f *fakeCheckout) CreateCheckoutSession(ctx context.Context, checkout gateway.CheckoutContext, amountCents int) (*gateway.CheckoutSession, error) {
	if f.fail {
		return nil, errors.New("gateway unreachable")
	}
	f.sessions = append(f.sessions, amountCents)
	id := fmt.Sprintf("cs_test_%d", len(f.sessions))
	return &gateway.CheckoutSession{
		ID:            id,
		PaymentIntent: "pi_test_" + id,
		PaymentStatus: "unpaid",
		URL:           "http://checkout.test/" + id,
	}, nil
}

// fakeSender records outgoing mail and can be told to fail.
type fakeSender struct {
	fail bool
	sent []mailer.Message
}

func (f *fakeSender) Send(msg mailer.Message) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, msg)
	return nil
}
