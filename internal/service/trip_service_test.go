package service

import (
	"context"
	"testing"
	"time"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTemplate(t *testing.T, env *testEnv, serviceID uint) *models.TripTemplate {
	t.Helper()
	days := 3
	template, err := env.templates.Create(context.Background(), &models.TripTemplate{
		GuideServiceID:        serviceID,
		Title:                 "Steelhead Camp",
		Location:              "Clearwater River",
		TimingMode:            models.TimingMultiDay,
		DurationDays:          &days,
		PricingCurrency:       "usd",
		DepositPercent:        "0",
		TargetClientsPerGuide: intPtr(4),
		Notes:                 "Bring waders",
		IsActive:              true,
	}, []pricing.Tier{
		{MinGuests: 1, MaxGuests: intPtr(2), PricePerGuest: "150.00"},
		{MinGuests: 3, MaxGuests: nil, PricePerGuest: "130.00"},
	})
	require.NoError(t, err)
	return template
}

func TestCreateTrip_FromTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := seedService(t, env.db)
	template := seedTemplate(t, env, svc.ID)

	start := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	trip, err := env.trips.CreateTrip(ctx, CreateTripInput{
		GuideServiceID: svc.ID,
		Start:          start,
		TemplateID:     &template.ID,
	})
	require.NoError(t, err)

	// Defaults flow from the template
	assert.Equal(t, "Steelhead Camp", trip.Title)
	assert.Equal(t, "Clearwater River", trip.Location)
	assert.Equal(t, models.TimingMultiDay, trip.TimingMode)
	require.NotNil(t, trip.DurationDays)
	assert.Equal(t, 3, *trip.DurationDays)
	assert.Equal(t, start.AddDate(0, 0, 3), trip.End)
	assert.Equal(t, "Bring waders", trip.Notes)
	require.NotNil(t, trip.TargetClientsPerGuide)
	assert.Equal(t, 4, *trip.TargetClientsPerGuide)
	assert.NotEmpty(t, trip.TemplateSnapshot)

	// The frozen snapshot carries precomputed cents
	snapshot := pricing.DecodeSnapshot(trip.PricingSnapshot)
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Tiers, 2)
	require.NotNil(t, snapshot.Tiers[0].PricePerGuestCents)
	assert.Equal(t, 15000, *snapshot.Tiers[0].PricePerGuestCents)
	assert.Equal(t, 13000, pricing.SelectPricePerGuestCents(snapshot, 4, 0))
}

func TestCreateTrip_CallerFieldsWinOverTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := seedService(t, env.db)
	template := seedTemplate(t, env, svc.ID)

	hours := 6
	trip, err := env.trips.CreateTrip(ctx, CreateTripInput{
		GuideServiceID: svc.ID,
		Title:          "Private Charter",
		Location:       "Lower Canyon",
		Start:          time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC),
		TimingMode:     models.TimingSingleDay,
		DurationHours:  &hours,
		TemplateID:     &template.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Private Charter", trip.Title)
	assert.Equal(t, "Lower Canyon", trip.Location)
	assert.Equal(t, models.TimingSingleDay, trip.TimingMode)
	assert.Nil(t, trip.DurationDays)
	assert.Equal(t, trip.Start.Add(6*time.Hour), trip.End)
}

func TestCreateTrip_TemplateEditsNeverTouchExistingTrips(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := seedService(t, env.db)
	template := seedTemplate(t, env, svc.ID)

	trip, err := env.trips.CreateTrip(ctx, CreateTripInput{
		GuideServiceID: svc.ID,
		Start:          time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC),
		TemplateID:     &template.ID,
	})
	require.NoError(t, err)

	// Raise every price on the template afterwards
	updated := *template
	_, err = env.templates.Update(ctx, template.ID, &updated, []pricing.Tier{
		{MinGuests: 1, MaxGuests: nil, PricePerGuest: "999.00"},
	})
	require.NoError(t, err)

	reloaded, err := env.trips.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	snapshot := pricing.DecodeSnapshot(reloaded.PricingSnapshot)
	assert.Equal(t, 15000, pricing.SelectPricePerGuestCents(snapshot, 1, 0))
}

func TestCreateTrip_RejectsForeignAndInactiveTemplates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := seedService(t, env.db)
	other := seedService(t, env.db)
	template := seedTemplate(t, env, other.ID)

	_, err := env.trips.CreateTrip(ctx, CreateTripInput{
		GuideServiceID: svc.ID,
		Start:          time.Now().Add(time.Hour),
		TemplateID:     &template.ID,
	})
	assert.ErrorIs(t, err, ErrTemplateOtherService)

	inactive := seedTemplate(t, env, svc.ID)
	edit := *inactive
	edit.IsActive = false
	_, err = env.templates.Update(ctx, inactive.ID, &edit, []pricing.Tier{
		{MinGuests: 1, MaxGuests: nil, PricePerGuest: "150.00"},
	})
	require.NoError(t, err)

	_, err = env.trips.CreateTrip(ctx, CreateTripInput{
		GuideServiceID: svc.ID,
		Start:          time.Now().Add(time.Hour),
		TemplateID:     &inactive.ID,
	})
	assert.ErrorIs(t, err, ErrTemplateInactive)
}

func TestCreateTrip_DirectPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := seedService(t, env.db)

	days := 2
	trip, err := env.trips.CreateTrip(ctx, CreateTripInput{
		GuideServiceID: svc.ID,
		Title:          "Walk-in Day Trip",
		Start:          time.Date(2026, 7, 1, 6, 0, 0, 0, time.UTC),
		TimingMode:     models.TimingMultiDay,
		DurationDays:   &days,
		PriceCents:     intPtr(20000),
	})
	require.NoError(t, err)

	snapshot := pricing.DecodeSnapshot(trip.PricingSnapshot)
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Tiers, 1)
	assert.Nil(t, snapshot.Tiers[0].MaxGuests)
	assert.Equal(t, 20000, pricing.SelectPricePerGuestCents(snapshot, 7, 0))
}

func TestCreateTrip_PriceRequiredWithoutTemplate(t *testing.T) {
	env := newTestEnv(t)
	svc := seedService(t, env.db)

	days := 2
	_, err := env.trips.CreateTrip(context.Background(), CreateTripInput{
		GuideServiceID: svc.ID,
		Start:          time.Now().Add(time.Hour),
		TimingMode:     models.TimingMultiDay,
		DurationDays:   &days,
	})
	assert.ErrorIs(t, err, ErrPriceRequired)
}

func TestCreateTrip_TimingValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := seedService(t, env.db)
	ctx := context.Background()

	hours := 4
	days := 2

	cases := []CreateTripInput{
		// single_day without hours
		{GuideServiceID: svc.ID, Start: time.Now(), TimingMode: models.TimingSingleDay, PriceCents: intPtr(10000)},
		// single_day carrying days
		{GuideServiceID: svc.ID, Start: time.Now(), TimingMode: models.TimingSingleDay, DurationHours: &hours, DurationDays: &days, PriceCents: intPtr(10000)},
		// multi_day without days
		{GuideServiceID: svc.ID, Start: time.Now(), TimingMode: models.TimingMultiDay, PriceCents: intPtr(10000)},
		// unknown mode
		{GuideServiceID: svc.ID, Start: time.Now(), TimingMode: "fortnightly", DurationDays: &days, PriceCents: intPtr(10000)},
	}
	for _, input := range cases {
		_, err := env.trips.CreateTrip(ctx, input)
		assert.ErrorIs(t, err, ErrInvalidTiming)
	}
}

func TestUpdateTrip_DirectPriceEditRefreezesSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := seedService(t, env.db)
	trip := seedTrip(t, env.db, svc.ID, time.Now().Add(48*time.Hour))

	updated, err := env.trips.UpdateTrip(ctx, trip.ID, UpdateTripInput{PriceCents: intPtr(18000)})
	require.NoError(t, err)

	snapshot := pricing.DecodeSnapshot(updated.PricingSnapshot)
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Tiers, 1)
	assert.Equal(t, 18000, pricing.SelectPricePerGuestCents(snapshot, 1, 0))
	assert.Equal(t, 18000, pricing.SelectPricePerGuestCents(snapshot, 9, 0))
}

func TestUpdateTrip_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.trips.UpdateTrip(context.Background(), 9999, UpdateTripInput{})
	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestTemplateDuplicate_TitleGeneration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := seedService(t, env.db)
	template := seedTemplate(t, env, svc.ID)

	first, err := env.templates.Duplicate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steelhead Camp (Copy)", first.Title)

	second, err := env.templates.Duplicate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steelhead Camp (Copy 2)", second.Title)

	third, err := env.templates.Duplicate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steelhead Camp (Copy 3)", third.Title)
}

func TestTemplateCreate_TitleUniquePerService(t *testing.T) {
	env := newTestEnv(t)
	svc := seedService(t, env.db)
	seedTemplate(t, env, svc.ID)

	days := 3
	_, err := env.templates.Create(context.Background(), &models.TripTemplate{
		GuideServiceID: svc.ID,
		Title:          "Steelhead Camp",
		TimingMode:     models.TimingMultiDay,
		DurationDays:   &days,
		DepositPercent: "0",
	}, []pricing.Tier{{MinGuests: 1, MaxGuests: nil, PricePerGuest: "100.00"}})
	assert.ErrorIs(t, err, ErrTemplateTitleTaken)

	// Same title under another service is fine
	other := seedService(t, env.db)
	_, err = env.templates.Create(context.Background(), &models.TripTemplate{
		GuideServiceID: other.ID,
		Title:          "Steelhead Camp",
		TimingMode:     models.TimingMultiDay,
		DurationDays:   &days,
		DepositPercent: "0",
	}, []pricing.Tier{{MinGuests: 1, MaxGuests: nil, PricePerGuest: "100.00"}})
	assert.NoError(t, err)
}
