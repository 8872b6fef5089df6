// Package mailer sends transactional email for the booking flow. Delivery
// failure is a hard error: a party is not created if its confirmation cannot
// be sent.
package mailer

import (
	"fmt"
	"strings"
	"time"
)

type Message struct {
	From       string
	Recipients []string
	Subject    string
	Body       string
}

type Sender interface {
	Send(msg Message) error
}

// FormatFrom renders the guide service as the visible sender while keeping
// the platform address as the envelope sender.
func FormatFrom(serviceName, defaultFrom string) string {
	addr := defaultFrom
	if i := strings.IndexByte(defaultFrom, '<'); i >= 0 && strings.HasSuffix(defaultFrom, ">") {
		addr = strings.TrimSuffix(defaultFrom[i+1:], ">")
	}
	return fmt.Sprintf("%s via Anchorpoint <%s>", serviceName, addr)
}

// BookingConfirmation composes the plaintext confirmation sent to every guest
// on a new party.
func BookingConfirmation(guestName, tripTitle, serviceName string, start, end time.Time, paymentURL, guestPortalURL string) (subject, body string) {
	if guestName == "" {
		guestName = "there"
	}
	subject = fmt.Sprintf("%s booking confirmed", tripTitle)
	lines := []string{
		fmt.Sprintf("Hi %s,", guestName),
		"",
		fmt.Sprintf("You're booked on %s with %s.", tripTitle, serviceName),
		fmt.Sprintf("Trip dates: %s to %s.", start.Format("January 02, 2006"), end.Format("January 02, 2006")),
		"",
		"Next steps:",
		fmt.Sprintf(" • Complete payment: %s", paymentURL),
		fmt.Sprintf(" • Update guest details or view waivers: %s", guestPortalURL),
		"",
		"If you have any questions, reply to this email and the guide service will assist you.",
		"",
		"- The Anchorpoint Team",
	}
	return subject, strings.Join(lines, "\n")
}
