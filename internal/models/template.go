package models

import (
	"time"

	"gorm.io/datatypes"
)

// TripTemplate is the editable blueprint a trip can be materialized from.
// PricingTiers holds the mutable tier list; trips get a frozen copy, so edits
// here never retroactively change existing trips.
type TripTemplate struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	GuideServiceID        uint       `gorm:"not null;uniqueIndex:idx_template_service_title" json:"guide_service_id"`
	Title                 string     `gorm:"size:200;not null;uniqueIndex:idx_template_service_title" json:"title"`
	Location              string     `gorm:"size:200" json:"location"`
	TimingMode            TimingMode `gorm:"size:20;not null;default:'multi_day'" json:"timing_mode"`
	DurationHours         *int       `json:"duration_hours,omitempty"`
	DurationDays          *int       `json:"duration_days,omitempty"`
	PricingCurrency       string     `gorm:"size:10;not null;default:'usd'" json:"pricing_currency"`
	IsDepositRequired     bool       `gorm:"not null;default:false" json:"is_deposit_required"`
	DepositPercent        string     `gorm:"size:10;not null;default:'0'" json:"deposit_percent"`
	PricingTiers          datatypes.JSON `json:"pricing_tiers"`
	TargetClientsPerGuide *int       `json:"target_clients_per_guide,omitempty"`
	Notes                 string     `gorm:"type:text" json:"notes,omitempty"`
	IsActive              bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	GuideService *GuideService `gorm:"foreignKey:GuideServiceID" json:"-"`
}
