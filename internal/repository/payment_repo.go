package repository

import (
	"context"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	// LatestByParty returns the most recently created payment for a party,
	// or gorm.ErrRecordNotFound when the party has none.
	LatestByParty(ctx context.Context, tx *gorm.DB, partyID uint) (*models.Payment, error)
	UpdateAmount(ctx context.Context, tx *gorm.DB, paymentID uint, amountCents int) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, paymentID uint, status string) error
	CountByParty(ctx context.Context, partyID uint) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) LatestByParty(ctx context.Context, tx *gorm.DB, partyID uint) (*models.Payment, error) {
	var payment models.Payment
	err := tx.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("created_at DESC, id DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) UpdateAmount(ctx context.Context, tx *gorm.DB, paymentID uint, amountCents int) error {
	return tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Update("amount_cents", amountCents).Error
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, paymentID uint, status string) error {
	return tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Update("status", status).Error
}

func (r *paymentRepository) CountByParty(ctx context.Context, partyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("party_id = ?", partyID).
		Count(&count).Error
	return count, err
}
