package consumer

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/lapster88/anchorpoint/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"
)

// paymentEvent is the bridged gateway webhook payload: the checkout session's
// id and its new status.
type paymentEvent struct {
	CheckoutSession string `json:"checkout_session"`
	Status          string `json:"status"`
}

type PaymentConsumer struct {
	db *gorm.DB
}

func NewPaymentConsumer(db *gorm.DB) *PaymentConsumer {
	return &PaymentConsumer{db: db}
}

// Start listens for payment events and syncs payment and party status.
func (pc *PaymentConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			pc.handleMessage(msg)
		}
		log.Println("[PaymentConsumer] channel closed, stopping consumer")
	}()
}

func (pc *PaymentConsumer) handleMessage(msg amqp.Delivery) {
	var event paymentEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[PaymentConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}
	if event.CheckoutSession == "" {
		msg.Nack(false, false)
		return
	}

	err := pc.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("stripe_checkout_session = ?", event.CheckoutSession).First(&payment).Error; err != nil {
			return err
		}

		if err := tx.Model(&payment).Update("status", event.Status).Error; err != nil {
			return err
		}

		// A paid session settles the party's payment track.
		if strings.EqualFold(event.Status, "paid") {
			err := tx.Model(&models.TripParty{}).
				Where("id = ?", payment.PartyID).
				Update("payment_status", models.PaymentPaid).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[PaymentConsumer] failed to sync session %s: %v", event.CheckoutSession, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[PaymentConsumer] synced session %s: %s", event.CheckoutSession, event.Status)
	msg.Ack(false)
}
