package repository

import (
	"context"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PartyRepository interface {
	Create(ctx context.Context, tx *gorm.DB, party *models.TripParty) error
	FindByID(ctx context.Context, id uint) (*models.TripParty, error)
	FindByTripAndID(ctx context.Context, tripID, partyID uint) (*models.TripParty, error)
	ListByTrip(ctx context.Context, tripID uint) ([]models.TripParty, error)
	AttachGuest(ctx context.Context, tx *gorm.DB, link *models.TripPartyGuest) error
	CountGuests(ctx context.Context, tx *gorm.DB, partyID uint) (int64, error)
	UpdatePartySize(ctx context.Context, tx *gorm.DB, partyID uint, size int) error
	GetDB() *gorm.DB
}

type partyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *partyRepository) Create(ctx context.Context, tx *gorm.DB, party *models.TripParty) error {
	return tx.WithContext(ctx).Create(party).Error
}

func (r *partyRepository) FindByID(ctx context.Context, id uint) (*models.TripParty, error) {
	var party models.TripParty
	err := r.db.WithContext(ctx).
		Preload("PrimaryGuest").
		Preload("PartyGuests.Guest").
		Preload("Payments").
		First(&party, id).Error
	if err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) FindByTripAndID(ctx context.Context, tripID, partyID uint) (*models.TripParty, error) {
	var party models.TripParty
	err := r.db.WithContext(ctx).
		Preload("PrimaryGuest").
		Preload("PartyGuests.Guest").
		Preload("Payments").
		Where("trip_id = ?", tripID).
		First(&party, partyID).Error
	if err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) ListByTrip(ctx context.Context, tripID uint) ([]models.TripParty, error) {
	var parties []models.TripParty
	err := r.db.WithContext(ctx).
		Preload("PrimaryGuest").
		Preload("PartyGuests.Guest").
		Preload("Payments").
		Where("trip_id = ?", tripID).
		Order("created_at ASC, id ASC").
		Find(&parties).Error
	if err != nil {
		return nil, err
	}
	return parties, nil
}

func (r *partyRepository) AttachGuest(ctx context.Context, tx *gorm.DB, link *models.TripPartyGuest) error {
	// get_or_create semantics: an already-attached guest is not an error.
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "party_id"}, {Name: "guest_id"}},
		DoNothing: true,
	}).Create(link).Error
}

func (r *partyRepository) CountGuests(ctx context.Context, tx *gorm.DB, partyID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.TripPartyGuest{}).
		Where("party_id = ?", partyID).
		Count(&count).Error
	return count, err
}

func (r *partyRepository) UpdatePartySize(ctx context.Context, tx *gorm.DB, partyID uint, size int) error {
	return tx.WithContext(ctx).
		Model(&models.TripParty{}).
		Where("id = ?", partyID).
		Update("party_size", size).Error
}
