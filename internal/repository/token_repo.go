package repository

import (
	"context"
	"time"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, token *models.GuestAccessToken) error
	FindByHash(ctx context.Context, hash string) (*models.GuestAccessToken, error)
	// MarkUsed stamps used_at once; a second call leaves the original stamp.
	MarkUsed(ctx context.Context, tokenID uint, when time.Time) error
	GetDB() *gorm.DB
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *tokenRepository) Create(ctx context.Context, tx *gorm.DB, token *models.GuestAccessToken) error {
	return tx.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) FindByHash(ctx context.Context, hash string) (*models.GuestAccessToken, error) {
	var token models.GuestAccessToken
	err := r.db.WithContext(ctx).
		Preload("GuestProfile").
		Where("token_hash = ?", hash).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) MarkUsed(ctx context.Context, tokenID uint, when time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.GuestAccessToken{}).
		Where("id = ? AND used_at IS NULL", tokenID).
		Update("used_at", when).Error
}
