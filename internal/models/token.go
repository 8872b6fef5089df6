package models

import "time"

const TokenPurposeLink = "link"

// GuestAccessToken is the magic-link credential letting a guest manage their
// own profile and waivers without an account. Only the SHA-256 hash of the
// raw secret is stored; the plaintext exists once, in the issuance response.
type GuestAccessToken struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	GuestProfileID uint       `gorm:"not null;index" json:"guest_profile_id"`
	PartyID        *uint      `gorm:"index" json:"party_id,omitempty"`
	TokenHash      string     `gorm:"size:128;uniqueIndex;not null" json:"-"`
	Purpose        string     `gorm:"size:20;not null;default:'link'" json:"purpose"`
	SingleUse      bool       `gorm:"not null;default:true" json:"single_use"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	GuestProfile *GuestProfile `gorm:"foreignKey:GuestProfileID" json:"-"`
	Party        *TripParty    `gorm:"foreignKey:PartyID" json:"-"`
}

// IsUsable reports whether the token still grants access at the given time.
func (t *GuestAccessToken) IsUsable(now time.Time) bool {
	if now.After(t.ExpiresAt) {
		return false
	}
	if t.SingleUse && t.UsedAt != nil {
		return false
	}
	return true
}
