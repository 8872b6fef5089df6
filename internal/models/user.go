package models

import "time"

type MembershipRole string

const (
	RoleOwner   MembershipRole = "OWNER"
	RoleManager MembershipRole = "OFFICE_MANAGER"
	RoleGuide   MembershipRole = "GUIDE"
)

// User is a staff account (owner, office manager or guide). Guests are not users;
// they live in GuestProfile and authenticate with access tokens only.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Email       string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName   string `gorm:"size:120" json:"first_name"`
	LastName    string `gorm:"size:120" json:"last_name"`
	DisplayName string `gorm:"size:120" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	name := u.FirstName + " " + u.LastName
	if name == " " {
		return u.Email
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return name
}

// ServiceMembership links a user to a guide service with a role. Deactivating a
// membership is how staff leave a service; the row is kept for history.
type ServiceMembership struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;uniqueIndex:idx_membership_user_service_role" json:"user_id"`
	GuideServiceID uint           `gorm:"not null;uniqueIndex:idx_membership_user_service_role" json:"guide_service_id"`
	Role           MembershipRole `gorm:"size:20;not null;uniqueIndex:idx_membership_user_service_role" json:"role"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GuideService *GuideService `gorm:"foreignKey:GuideServiceID" json:"-"`
}
