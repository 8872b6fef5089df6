package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var ErrNoTiers = errors.New("at least one pricing tier is required")

// ValidateTiers enforces the tier-list invariants shared by pricing models and
// trip templates: sorted coverage starting at one guest, contiguous ranges
// with no gaps, a single open-ended final tier, and positive prices.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return ErrNoTiers
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinGuests < sorted[j].MinGuests
	})

	lastMax := 0
	for idx, tier := range sorted {
		if tier.MinGuests < 1 {
			return fmt.Errorf("tier %d: min_guests must be at least 1", idx+1)
		}
		if tier.MaxGuests != nil && *tier.MaxGuests < tier.MinGuests {
			return fmt.Errorf("tier %d: max_guests must be >= min_guests", idx+1)
		}
		if lastMax == 0 && tier.MinGuests != 1 {
			return errors.New("tiers must start at 1 guest")
		}
		if lastMax != 0 && tier.MinGuests != lastMax+1 {
			return errors.New("tiers must be contiguous without gaps")
		}
		cents, ok := ParsePriceCents(tier.PricePerGuest)
		if !ok {
			return fmt.Errorf("tier %d: price_per_guest must be numeric", idx+1)
		}
		if cents <= 0 {
			return fmt.Errorf("tier %d: price_per_guest must be greater than zero", idx+1)
		}
		if tier.MaxGuests != nil {
			lastMax = *tier.MaxGuests
		} else {
			lastMax = tier.MinGuests
		}
	}

	if sorted[len(sorted)-1].MaxGuests != nil {
		return errors.New("final tier must leave max_guests blank for open-ended ranges")
	}
	return nil
}

// ValidateDeposit checks the deposit settings carried alongside a tier list.
func ValidateDeposit(percent string, required bool) error {
	value, err := strconv.ParseFloat(percent, 64)
	if err != nil {
		return errors.New("deposit percent must be a number")
	}
	if value < 0 || value > 100 {
		return errors.New("deposit percent must be between 0 and 100")
	}
	if required && value == 0 {
		return errors.New("deposit percent must be greater than 0 when a deposit is required")
	}
	return nil
}

// DecodeTiers parses a stored tier list (the mutable template column).
// Unlike DecodeSnapshot this is strict: templates are validated on write, so
// malformed data here is a real error.
func DecodeTiers(raw []byte) ([]Tier, error) {
	if len(raw) == 0 {
		return nil, ErrNoTiers
	}
	var tiers []Tier
	if err := json.Unmarshal(raw, &tiers); err != nil {
		return nil, fmt.Errorf("decode pricing tiers: %w", err)
	}
	return tiers, nil
}

// EncodeTiers serializes a tier list for the template column.
func EncodeTiers(tiers []Tier) ([]byte, error) {
	return json.Marshal(tiers)
}
