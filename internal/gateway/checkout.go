// Package gateway wraps the payment provider behind a small client interface.
// The booking core never branches on whether it is talking to Stripe or the
// local stub; both return the same session shape.
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CheckoutSession is the subset of a provider checkout session the booking
// workflow consumes.
type CheckoutSession struct {
	ID            string
	PaymentIntent string
	PaymentStatus string
	URL           string
}

// CheckoutContext carries the booking references a session is created for.
type CheckoutContext struct {
	PartyID        uint
	TripID         uint
	GuideServiceID uint
	TripTitle      string
	Currency       string
	// StripeAccount routes the charge to the guide service's connected
	// account when set.
	StripeAccount string
}

type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, checkout CheckoutContext, amountCents int) (*CheckoutSession, error)
}

// StubClient returns predictable sessions without hitting the network, so the
// rest of the booking flow (emails, payment records, links) behaves as if the
// provider responded. Used in tests and local development.
type StubClient struct {
	FrontendURL string
}

func NewStubClient(frontendURL string) *StubClient {
	return &StubClient{FrontendURL: frontendURL}
}

func (c *StubClient) CreateCheckoutSession(ctx context.Context, checkout CheckoutContext, amountCents int) (*CheckoutSession, error) {
	sessionID := "cs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	paymentIntent := "pi_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &CheckoutSession{
		ID:            sessionID,
		PaymentIntent: paymentIntent,
		PaymentStatus: "unpaid",
		URL:           BuildCheckoutPreviewURL(c.FrontendURL, checkout.PartyID, amountCents, sessionID),
	}, nil
}

// BuildCheckoutPreviewURL recreates the stub payment link for a session id;
// also used to resurface the link for an existing pending payment.
func BuildCheckoutPreviewURL(frontendURL string, partyID uint, amountCents int, sessionID string) string {
	return fmt.Sprintf("%s/payments/preview?party=%d&amount=%d&session=%s",
		strings.TrimRight(frontendURL, "/"), partyID, amountCents, sessionID)
}
