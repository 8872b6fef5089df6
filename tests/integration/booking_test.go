//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lapster88/anchorpoint/internal/gateway"
	"github.com/lapster88/anchorpoint/internal/mailer"
	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/pricing"
	"github.com/lapster88/anchorpoint/internal/repository"
	"github.com/lapster88/anchorpoint/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardSender struct{}

func (discardSender) Send(mailer.Message) error { return nil }

type services struct {
	parties     service.PartyService
	assignments service.AssignmentService
	memberships service.MembershipService
	trips       service.TripService
}

func newServices() *services {
	tripRepo := repository.NewTripRepository(testDB)
	templateRepo := repository.NewTemplateRepository(testDB)
	assignmentRepo := repository.NewAssignmentRepository(testDB)
	availabilityRepo := repository.NewAvailabilityRepository(testDB)
	membershipRepo := repository.NewMembershipRepository(testDB)
	partyRepo := repository.NewPartyRepository(testDB)
	guestRepo := repository.NewGuestRepository(testDB)
	paymentRepo := repository.NewPaymentRepository(testDB)
	tokenRepo := repository.NewTokenRepository(testDB)

	propagator := service.NewAvailabilityPropagator(availabilityRepo)
	tokens := service.NewTokenService(tokenRepo, guestRepo, partyRepo)
	assignments := service.NewAssignmentService(assignmentRepo, tripRepo, membershipRepo, propagator, nil)
	memberships := service.NewMembershipService(membershipRepo, assignmentRepo, propagator)
	trips := service.NewTripService(tripRepo, templateRepo, assignments, propagator, nil)
	parties := service.NewPartyService(partyRepo, guestRepo, paymentRepo, tripRepo,
		tokens, gateway.NewStubClient("http://frontend.test"), discardSender{}, nil,
		"http://frontend.test", "bookings@anchorpoint.test")

	return &services{
		parties:     parties,
		assignments: assignments,
		memberships: memberships,
		trips:       trips,
	}
}

func intPtr(n int) *int { return &n }

func createTestService(t *testing.T, slug string) *models.GuideService {
	t.Helper()
	svc := &models.GuideService{Name: "North Fork Anglers", Slug: slug}
	require.NoError(t, testDB.Create(svc).Error)
	return svc
}

func createTestGuide(t *testing.T, serviceID uint, email string) (*models.User, *models.ServiceMembership) {
	t.Helper()
	user := &models.User{Email: email}
	require.NoError(t, testDB.Create(user).Error)
	membership := &models.ServiceMembership{
		UserID:         user.ID,
		GuideServiceID: serviceID,
		Role:           models.RoleGuide,
		IsActive:       true,
	}
	require.NoError(t, testDB.Create(membership).Error)
	return user, membership
}

func createTestTrip(t *testing.T, serviceID uint, start time.Time) *models.Trip {
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
		Start:           start,
		End:             start.AddDate(0, 0, days),
		TimingMode:      models.TimingMultiDay,
		DurationDays:    &days,
		PricingSnapshot: raw,
	}
	require.NoError(t, testDB.Create(trip).Error)
	return trip
}

// Full booking flow: create at size 1 for $150, grow to 5 and land in the
// $130 tier on the same payment row.
func TestBookingRepriceFlow(t *testing.T) {
	cleanTables()
	svc := newServices()
	tenant := createTestService(t, "north-fork")
	trip := createTestTrip(t, tenant.ID, time.Now().Add(48*time.Hour))

	result, err := svc.parties.CreateParty(context.Background(), trip.ID, service.CreatePartyInput{
		PartySize: 1,
		Guests:    []service.GuestInput{{Email: "alice@example.com", FirstName: "Alice"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 15000, result.Payment.AmountCents)

	_, err = svc.parties.UpdatePartySize(context.Background(), trip.ID, result.Party.ID, 5)
	require.NoError(t, err)

	var payments []models.Payment
	require.NoError(t, testDB.Where("party_id = ?", result.Party.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, 65000, payments[0].AmountCents)
}

// Concurrent bookings by the same guest across trips must collapse onto one
// guest profile; the email upsert carries the race.
func TestConcurrentBookingSameGuest(t *testing.T) {
	cleanTables()
	svc := newServices()
	tenant := createTestService(t, "north-fork")

	totalTrips := 10
	trips := make([]*models.Trip, totalTrips)
	for i := range trips {
		trips[i] = createTestTrip(t, tenant.ID, time.Now().Add(time.Duration(48+i)*time.Hour))
	}

	var wg sync.WaitGroup
	errs := make(chan error, totalTrips)

	wg.Add(totalTrips)
	for i := 0; i < totalTrips; i++ {
		go func(idx int) {
			defer wg.Done()
			_, err := svc.parties.CreateParty(context.Background(), trips[idx].ID, service.CreatePartyInput{
				PartySize: 2,
				Guests:    []service.GuestInput{{Email: "repeat@example.com", FirstName: fmt.Sprintf("Run %d", idx)}},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var guests int64
	testDB.Model(&models.GuestProfile{}).Where("email = ?", "repeat@example.com").Count(&guests)
	assert.Equal(t, int64(1), guests)

	var parties int64
	testDB.Model(&models.TripParty{}).Count(&parties)
	assert.Equal(t, int64(totalTrips), parties)
}

// Assignment lifecycle mirrored onto the calendar, including the membership
// deactivation cascade over future trips only.
func TestAssignmentCalendarLifecycle(t *testing.T) {
	cleanTables()
	svc := newServices()
	tenant := createTestService(t, "north-fork")

	owner := &models.User{Email: "owner@north-fork.test"}
	require.NoError(t, testDB.Create(owner).Error)
	require.NoError(t, testDB.Create(&models.ServiceMembership{
		UserID:         owner.ID,
		GuideServiceID: tenant.ID,
		Role:           models.RoleOwner,
		IsActive:       true,
	}).Error)

	guide, membership := createTestGuide(t, tenant.ID, "casey@north-fork.test")
	past := createTestTrip(t, tenant.ID, time.Now().Add(-30*24*time.Hour))
	future := createTestTrip(t, tenant.ID, time.Now().Add(48*time.Hour))

	_, err := svc.assignments.Assign(context.Background(), past.ID, guide.ID)
	require.NoError(t, err)
	_, err = svc.assignments.Assign(context.Background(), future.ID, guide.ID)
	require.NoError(t, err)

	var blocks int64
	testDB.Model(&models.GuideAvailability{}).Where("source = ?", models.SourceAssignment).Count(&blocks)
	require.Equal(t, int64(2), blocks)

	_, err = svc.memberships.Deactivate(context.Background(), membership.ID)
	require.NoError(t, err)

	var remaining []models.GuideAvailability
	require.NoError(t, testDB.Where("source = ?", models.SourceAssignment).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.NotNil(t, remaining[0].TripID)
	assert.Equal(t, past.ID, *remaining[0].TripID)
}
