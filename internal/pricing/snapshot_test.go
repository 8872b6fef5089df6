package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func tieredSnapshot() *PricingSnapshot {
	return &PricingSnapshot{
		Currency:       "usd",
		DepositPercent: "0",
		Tiers: []Tier{
			{MinGuests: 1, MaxGuests: intPtr(2), PricePerGuest: "150.00", PricePerGuestCents: intPtr(15000)},
			{MinGuests: 3, MaxGuests: nil, PricePerGuest: "130.00", PricePerGuestCents: intPtr(13000)},
		},
	}
}

func TestSelectPrice_FirstMatchingTier(t *testing.T) {
	s := tieredSnapshot()

	assert.Equal(t, 15000, SelectPricePerGuestCents(s, 1, 0))
	assert.Equal(t, 15000, SelectPricePerGuestCents(s, 2, 0))
	assert.Equal(t, 13000, SelectPricePerGuestCents(s, 3, 0))
	assert.Equal(t, 13000, SelectPricePerGuestCents(s, 50, 0))
}

func TestSelectPrice_TiersSortedBeforeMatching(t *testing.T) {
	s := &PricingSnapshot{Tiers: []Tier{
		{MinGuests: 3, MaxGuests: nil, PricePerGuestCents: intPtr(13000)},
		{MinGuests: 1, MaxGuests: intPtr(2), PricePerGuestCents: intPtr(15000)},
	}}

	assert.Equal(t, 15000, SelectPricePerGuestCents(s, 2, 0))
	assert.Equal(t, 13000, SelectPricePerGuestCents(s, 4, 0))
}

func TestSelectPrice_BelowFirstTierFallsToLast(t *testing.T) {
	// No tier contains size 1; historical data like this resolves to the
	// final open-ended tier rather than erroring.
	s := &PricingSnapshot{Tiers: []Tier{
		{MinGuests: 4, MaxGuests: intPtr(6), PricePerGuestCents: intPtr(12000)},
		{MinGuests: 7, MaxGuests: nil, PricePerGuestCents: intPtr(10000)},
	}}

	assert.Equal(t, 10000, SelectPricePerGuestCents(s, 1, 0))
}

func TestSelectPrice_MinBelowOneTreatedAsOne(t *testing.T) {
	s := &PricingSnapshot{Tiers: []Tier{
		{MinGuests: 0, MaxGuests: nil, PricePerGuestCents: intPtr(9900)},
	}}

	assert.Equal(t, 9900, SelectPricePerGuestCents(s, 1, 0))
}

func TestSelectPrice_ParsesDecimalWhenCentsMissing(t *testing.T) {
	s := &PricingSnapshot{Tiers: []Tier{
		{MinGuests: 1, MaxGuests: nil, PricePerGuest: "129.99"},
	}}

	assert.Equal(t, 12999, SelectPricePerGuestCents(s, 2, 0))
}

func TestSelectPrice_PrefersPrecomputedCents(t *testing.T) {
	s := &PricingSnapshot{Tiers: []Tier{
		{MinGuests: 1, MaxGuests: nil, PricePerGuest: "999.99", PricePerGuestCents: intPtr(15000)},
	}}

	assert.Equal(t, 15000, SelectPricePerGuestCents(s, 1, 0))
}

func TestSelectPrice_DefaultOnNilOrEmpty(t *testing.T) {
	assert.Equal(t, 5000, SelectPricePerGuestCents(nil, 3, 5000))
	assert.Equal(t, 5000, SelectPricePerGuestCents(&PricingSnapshot{}, 3, 5000))
}

func TestSelectPrice_DefaultOnUnparsablePrice(t *testing.T) {
	s := &PricingSnapshot{Tiers: []Tier{
		{MinGuests: 1, MaxGuests: nil, PricePerGuest: "not-a-number"},
	}}

	assert.Equal(t, 4200, SelectPricePerGuestCents(s, 1, 4200))
}

func TestDecodeSnapshot_MalformedYieldsNil(t *testing.T) {
	assert.Nil(t, DecodeSnapshot(nil))
	assert.Nil(t, DecodeSnapshot([]byte{}))
	assert.Nil(t, DecodeSnapshot([]byte(`{"tiers": [}`)))
}

func TestDecodeSnapshot_RoundTrip(t *testing.T) {
	raw, err := tieredSnapshot().Encode()
	require.NoError(t, err)

	decoded := DecodeSnapshot(raw)
	require.NotNil(t, decoded)
	assert.Len(t, decoded.Tiers, 2)
	assert.Equal(t, "150.00", decoded.Tiers[0].PricePerGuest)
}

func TestBuildSingleTierSnapshot(t *testing.T) {
	s := BuildSingleTierSnapshot(25000)

	require.Len(t, s.Tiers, 1)
	tier := s.Tiers[0]
	assert.Equal(t, 1, tier.MinGuests)
	assert.Nil(t, tier.MaxGuests)
	assert.Equal(t, "250.00", tier.PricePerGuest)
	require.NotNil(t, tier.PricePerGuestCents)
	assert.Equal(t, 25000, *tier.PricePerGuestCents)
	assert.Equal(t, 25000, SelectPricePerGuestCents(&s, 12, 0))
}

func TestSnapshotBasePriceCents(t *testing.T) {
	assert.Equal(t, 15000, SnapshotBasePriceCents(tieredSnapshot(), 0))
	assert.Equal(t, 0, SnapshotBasePriceCents(nil, 0))
}

func TestParsePriceCents_RoundsHalfToEven(t *testing.T) {
	cents, ok := ParsePriceCents("0.125")
	assert.True(t, ok)
	assert.Equal(t, 12, cents)

	cents, ok = ParsePriceCents("0.135")
	assert.True(t, ok)
	assert.Equal(t, 14, cents)
}

func TestRederiveCents(t *testing.T) {
	stale := intPtr(1)
	tiers := []Tier{
		{MinGuests: 1, MaxGuests: intPtr(2), PricePerGuest: "150.00", PricePerGuestCents: stale},
		{MinGuests: 3, MaxGuests: nil, PricePerGuest: "bogus"},
	}

	out := RederiveCents(tiers)

	require.NotNil(t, out[0].PricePerGuestCents)
	assert.Equal(t, 15000, *out[0].PricePerGuestCents)
	assert.Nil(t, out[1].PricePerGuestCents)

	// Deep copy: the source list is untouched
	assert.Equal(t, 1, *tiers[0].PricePerGuestCents)
	*out[0].MaxGuests = 99
	assert.Equal(t, 2, *tiers[0].MaxGuests)
}
