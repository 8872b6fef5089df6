package models

import "time"

// Payment records one checkout session issued for a party. Status holds the
// raw gateway status string ("unpaid", "open", "paid", ...); the party's
// PaymentStatus enum is tracked separately.
type Payment struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	PartyID               uint      `gorm:"not null;index" json:"party_id"`
	AmountCents           int       `gorm:"not null" json:"amount_cents"`
	Currency              string    `gorm:"size:10;not null;default:'usd'" json:"currency"`
	StripeCheckoutSession string    `gorm:"size:200" json:"stripe_checkout_session"`
	StripePaymentIntent   string    `gorm:"size:200" json:"stripe_payment_intent"`
	Status                string    `gorm:"size:30" json:"status"`
	CreatedAt             time.Time `json:"created_at"`

	Party *TripParty `gorm:"foreignKey:PartyID" json:"-"`
}
