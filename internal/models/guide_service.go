package models

import "time"

// GuideService is the tenant: an outfitter running trips with its own staff roster.
type GuideService struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	Name                 string `gorm:"size:200;not null" json:"name"`
	Slug                 string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	ContactEmail         string `gorm:"size:254" json:"contact_email"`
	Phone                string `gorm:"size:30" json:"phone,omitempty"`
	BillingStripeAccount string `gorm:"size:200" json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
