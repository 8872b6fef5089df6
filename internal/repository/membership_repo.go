package repository

import (
	"context"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
)

type MembershipRepository interface {
	Create(ctx context.Context, tx *gorm.DB, membership *models.ServiceMembership) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ServiceMembership, error)
	// CountOtherActiveOwners counts active OWNER memberships of the service
	// excluding the given membership row; the last-owner guard reads this.
	CountOtherActiveOwners(ctx context.Context, tx *gorm.DB, serviceID, excludeID uint) (int64, error)
	HasActiveRole(ctx context.Context, tx *gorm.DB, userID, serviceID uint, role models.MembershipRole) (bool, error)
	Save(ctx context.Context, tx *gorm.DB, membership *models.ServiceMembership) error
	GetDB() *gorm.DB
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *membershipRepository) Create(ctx context.Context, tx *gorm.DB, membership *models.ServiceMembership) error {
	return tx.WithContext(ctx).Create(membership).Error
}

func (r *membershipRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ServiceMembership, error) {
	var membership models.ServiceMembership
	if err := tx.WithContext(ctx).First(&membership, id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepository) CountOtherActiveOwners(ctx context.Context, tx *gorm.DB, serviceID, excludeID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.ServiceMembership{}).
		Where("guide_service_id = ? AND role = ? AND is_active = ? AND id <> ?",
			serviceID, models.RoleOwner, true, excludeID).
		Count(&count).Error
	return count, err
}

func (r *membershipRepository) HasActiveRole(ctx context.Context, tx *gorm.DB, userID, serviceID uint, role models.MembershipRole) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.ServiceMembership{}).
		Where("user_id = ? AND guide_service_id = ? AND role = ? AND is_active = ?",
			userID, serviceID, role, true).
		Count(&count).Error
	return count > 0, err
}

func (r *membershipRepository) Save(ctx context.Context, tx *gorm.DB, membership *models.ServiceMembership) error {
	return tx.WithContext(ctx).Save(membership).Error
}
