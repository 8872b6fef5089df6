package repository

import (
	"context"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GuestRepository interface {
	// Upsert inserts or updates a profile keyed by its (lower-cased) email,
	// refreshing contact and medical fields on conflict.
	Upsert(ctx context.Context, tx *gorm.DB, guest *models.GuestProfile) error
	FindByID(ctx context.Context, id uint) (*models.GuestProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.GuestProfile, error)
	Save(ctx context.Context, tx *gorm.DB, guest *models.GuestProfile) error
}

type guestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) Upsert(ctx context.Context, tx *gorm.DB, guest *models.GuestProfile) error {
	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "phone", "date_of_birth",
			"emergency_contact_name", "emergency_contact_phone",
			"medical_notes", "dietary_notes", "updated_at",
		}),
	}).Create(guest).Error
	if err != nil {
		return err
	}
	// The conflict path does not backfill the existing row's ID.
	return tx.WithContext(ctx).Where("email = ?", guest.Email).First(guest).Error
}

func (r *guestRepository) FindByID(ctx context.Context, id uint) (*models.GuestProfile, error) {
	var guest models.GuestProfile
	if err := r.db.WithContext(ctx).First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) FindByEmail(ctx context.Context, email string) (*models.GuestProfile, error) {
	var guest models.GuestProfile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) Save(ctx context.Context, tx *gorm.DB, guest *models.GuestProfile) error {
	return tx.WithContext(ctx).Save(guest).Error
}
