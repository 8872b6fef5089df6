// Package pricing implements tiered pricing snapshots: versioned, denormalized
// copies of a pricing model's tiers that are frozen onto a trip at creation
// time and resolved per party size when pricing a booking.
package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

const DefaultCurrency = "usd"

// Tier prices one contiguous party-size range. MaxGuests == nil means the tier
// is open-ended. PricePerGuestCents is a precomputed copy of PricePerGuest;
// legacy snapshots may lack it, in which case the decimal string is parsed.
type Tier struct {
	ID                 uint   `json:"id,omitempty"`
	MinGuests          int    `json:"min_guests"`
	MaxGuests          *int   `json:"max_guests"`
	PricePerGuest      string `json:"price_per_guest"`
	PricePerGuestCents *int   `json:"price_per_guest_cents,omitempty"`
}

// PricingSnapshot is the frozen pricing attached to a trip. It is immutable
// once attached; templates and pricing models hold the editable tier lists.
type PricingSnapshot struct {
	PricingModelID   uint   `json:"pricing_model_id,omitempty"`
	PricingModelName string `json:"pricing_model_name,omitempty"`
	Currency         string `json:"currency"`
	IsDepositRequired bool  `json:"is_deposit_required"`
	DepositPercent   string `json:"deposit_percent"`
	Tiers            []Tier `json:"tiers"`
}

// DecodeSnapshot parses a stored snapshot blob. Malformed or empty input
// yields nil rather than an error; historical trips may carry corrupt or
// absent snapshots and pricing must degrade to a caller-supplied default.
func DecodeSnapshot(raw []byte) *PricingSnapshot {
	if len(raw) == 0 {
		return nil
	}
	var s PricingSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// Encode serializes the snapshot for storage in a JSON column.
func (s *PricingSnapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// BuildSingleTierSnapshot constructs a snapshot matching the template snapshot
// schema but with a single open-ended tier. Used whenever a trip is priced
// directly instead of through a template.
func BuildSingleTierSnapshot(priceCents int) PricingSnapshot {
	cents := priceCents
	return PricingSnapshot{
		Currency:          DefaultCurrency,
		IsDepositRequired: false,
		DepositPercent:    "0",
		Tiers: []Tier{
			{
				MinGuests:          1,
				MaxGuests:          nil,
				PricePerGuest:      FormatCents(priceCents),
				PricePerGuestCents: &cents,
			},
		},
	}
}

// SnapshotBasePriceCents resolves the single-guest price, used as the trip's
// headline price in listings.
func SnapshotBasePriceCents(s *PricingSnapshot, def int) int {
	return SelectPricePerGuestCents(s, 1, def)
}

// SelectPricePerGuestCents picks the per-guest price for a party size.
//
// Tiers are evaluated in ascending min_guests order; the first tier whose
// range contains the party size wins. When nothing matches (corrupt data,
// e.g. a party size below the first tier's minimum) the last tier is used.
// A nil or tierless snapshot resolves to def. Never returns an error.
func SelectPricePerGuestCents(s *PricingSnapshot, partySize int, def int) int {
	if s == nil || len(s.Tiers) == 0 {
		return def
	}

	tiers := make([]Tier, len(s.Tiers))
	copy(tiers, s.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return normalizedMin(tiers[i]) < normalizedMin(tiers[j])
	})

	var selected *Tier
	for i := range tiers {
		tier := &tiers[i]
		if partySize < normalizedMin(*tier) {
			continue
		}
		if tier.MaxGuests != nil && partySize > *tier.MaxGuests {
			continue
		}
		selected = tier
		break
	}
	if selected == nil {
		selected = &tiers[len(tiers)-1]
	}

	if selected.PricePerGuestCents != nil {
		return *selected.PricePerGuestCents
	}
	cents, ok := ParsePriceCents(selected.PricePerGuest)
	if !ok {
		return def
	}
	return cents
}

func normalizedMin(t Tier) int {
	if t.MinGuests < 1 {
		return 1
	}
	return t.MinGuests
}

// ParsePriceCents converts a decimal price string ("129.99") to cents,
// rounding half-to-even so re-derivation is deterministic across runs.
func ParsePriceCents(price string) (int, bool) {
	if price == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, false
	}
	return int(math.RoundToEven(value * 100)), true
}

// FormatCents renders a cent amount as the canonical decimal price string.
func FormatCents(cents int) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// RederiveCents deep-copies a tier list, recomputing each tier's cents from
// its decimal string. Called when materializing a template's tiers into a
// trip snapshot so the frozen copy carries precomputed prices.
func RederiveCents(tiers []Tier) []Tier {
	out := make([]Tier, len(tiers))
	for i, tier := range tiers {
		copied := tier
		if tier.MaxGuests != nil {
			maxCopy := *tier.MaxGuests
			copied.MaxGuests = &maxCopy
		}
		if cents, ok := ParsePriceCents(tier.PricePerGuest); ok {
			copied.PricePerGuestCents = &cents
		} else {
			copied.PricePerGuestCents = nil
		}
		out[i] = copied
	}
	return out
}
