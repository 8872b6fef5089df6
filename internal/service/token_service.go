package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/lapster88/anchorpoint/internal/models"
	"github.com/lapster88/anchorpoint/internal/repository"
	"gorm.io/gorm"
)

var ErrTokenInvalid = errors.New("token is invalid or expired")

// TokenService issues and checks guest access tokens, the only credential the
// guest portal accepts. The raw secret is returned exactly once at issuance;
// storage only ever sees its SHA-256 hash.
type TokenService interface {
	Issue(ctx context.Context, tx *gorm.DB, guestID uint, partyID *uint, singleUse bool, expiresAt time.Time) (string, *models.GuestAccessToken, error)
	// Validate resolves a raw token to its row, or ErrTokenInvalid when the
	// token is unknown, expired or already consumed.
	Validate(ctx context.Context, rawToken string) (*models.GuestAccessToken, error)
	MarkUsed(ctx context.Context, tokenID uint) error
	// UpdateGuestProfile applies a guest's own edits, gated by a valid token.
	UpdateGuestProfile(ctx context.Context, rawToken string, update GuestProfileUpdate) (*models.GuestProfile, error)
}

// GuestProfileUpdate carries the fields a guest may edit from the portal.
// Nil pointers leave the stored value untouched.
type GuestProfileUpdate struct {
	FirstName             *string
	LastName              *string
	Phone                 *string
	DateOfBirth           *time.Time
	EmergencyContactName  *string
	EmergencyContactPhone *string
	MedicalNotes          *string
	DietaryNotes          *string
}

type tokenService struct {
	tokenRepo repository.TokenRepository
	guestRepo repository.GuestRepository
	partyRepo repository.PartyRepository
}

func NewTokenService(tokenRepo repository.TokenRepository, guestRepo repository.GuestRepository, partyRepo repository.PartyRepository) TokenService {
	return &tokenService{
		tokenRepo: tokenRepo,
		guestRepo: guestRepo,
		partyRepo: partyRepo,
	}
}

func (s *tokenService) Issue(ctx context.Context, tx *gorm.DB, guestID uint, partyID *uint, singleUse bool, expiresAt time.Time) (string, *models.GuestAccessToken, error) {
	raw, err := newTokenSecret()
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	token := &models.GuestAccessToken{
		GuestProfileID: guestID,
		PartyID:        partyID,
		TokenHash:      HashToken(raw),
		Purpose:        models.TokenPurposeLink,
		SingleUse:      singleUse,
		ExpiresAt:      expiresAt,
	}
	if err := s.tokenRepo.Create(ctx, tx, token); err != nil {
		return "", nil, fmt.Errorf("store token: %w", err)
	}
	return raw, token, nil
}

func (s *tokenService) Validate(ctx context.Context, rawToken string) (*models.GuestAccessToken, error) {
	token, err := s.tokenRepo.FindByHash(ctx, HashToken(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !token.IsUsable(time.Now()) {
		return nil, ErrTokenInvalid
	}
	return token, nil
}

func (s *tokenService) MarkUsed(ctx context.Context, tokenID uint) error {
	return s.tokenRepo.MarkUsed(ctx, tokenID, time.Now())
}

func (s *tokenService) UpdateGuestProfile(ctx context.Context, rawToken string, update GuestProfileUpdate) (*models.GuestProfile, error) {
	token, err := s.Validate(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	var result *models.GuestProfile
	err = s.tokenRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guestRepo.FindByID(ctx, token.GuestProfileID)
		if err != nil {
			return err
		}

		applyGuestUpdate(guest, update)
		if err := s.guestRepo.Save(ctx, tx, guest); err != nil {
			return err
		}

		// Stamp activity on the party the token was issued for.
		if token.PartyID != nil {
			now := time.Now()
			err := tx.WithContext(ctx).
				Model(&models.TripParty{}).
				Where("id = ?", *token.PartyID).
				Update("last_guest_activity_at", now).Error
			if err != nil {
				return err
			}
		}

		result = guest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func applyGuestUpdate(guest *models.GuestProfile, update GuestProfileUpdate) {
	if update.FirstName != nil {
		guest.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		guest.LastName = *update.LastName
	}
	if update.Phone != nil {
		guest.Phone = *update.Phone
	}
	if update.DateOfBirth != nil {
		guest.DateOfBirth = update.DateOfBirth
	}
	if update.EmergencyContactName != nil {
		guest.EmergencyContactName = *update.EmergencyContactName
	}
	if update.EmergencyContactPhone != nil {
		guest.EmergencyContactPhone = *update.EmergencyContactPhone
	}
	if update.MedicalNotes != nil {
		guest.MedicalNotes = *update.MedicalNotes
	}
	if update.DietaryNotes != nil {
		guest.DietaryNotes = *update.DietaryNotes
	}
}

// newTokenSecret returns a URL-safe high-entropy secret.
func newTokenSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken maps a raw token to its stored hash.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
