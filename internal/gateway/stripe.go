package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeClient creates real Stripe Checkout sessions. Charges are routed to
// the guide service's connected account when one is configured.
type StripeClient struct {
	FrontendURL string
}

func NewStripeClient(secretKey, frontendURL string) *StripeClient {
	stripe.Key = secretKey
	return &StripeClient{FrontendURL: frontendURL}
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, checkout CheckoutContext, amountCents int) (*CheckoutSession, error) {
	base := strings.TrimRight(c.FrontendURL, "/")
	currency := checkout.Currency
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(int64(amountCents)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(checkout.TripTitle),
					},
				},
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/payment/success?party=%d", base, checkout.PartyID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/payment/cancel?party=%d", base, checkout.PartyID)),
	}
	params.Context = ctx
	params.AddMetadata("party_id", strconv.FormatUint(uint64(checkout.PartyID), 10))
	params.AddMetadata("trip_id", strconv.FormatUint(uint64(checkout.TripID), 10))
	params.AddMetadata("guide_service_id", strconv.FormatUint(uint64(checkout.GuideServiceID), 10))
	if checkout.StripeAccount != "" {
		params.SetStripeAccount(checkout.StripeAccount)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	paymentIntent := ""
	if s.PaymentIntent != nil {
		paymentIntent = s.PaymentIntent.ID
	}
	return &CheckoutSession{
		ID:            s.ID,
		PaymentIntent: paymentIntent,
		PaymentStatus: string(s.PaymentStatus),
		URL:           s.URL,
	}, nil
}
