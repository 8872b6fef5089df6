package models

import (
	"time"

	"gorm.io/datatypes"
)

type TimingMode string

const (
	TimingSingleDay TimingMode = "single_day"
	TimingMultiDay  TimingMode = "multi_day"
)

// Trip is a scheduled outing for one guide service. Its pricing lives in
// PricingSnapshot, a frozen copy taken at creation time; later edits to the
// template or pricing model it came from never touch it.
type Trip struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	GuideServiceID uint       `gorm:"not null;index" json:"guide_service_id"`
	Title          string     `gorm:"size:200" json:"title"`
	Location       string     `gorm:"size:200" json:"location"`
	Start          time.Time  `gorm:"not null;index" json:"start"`
	End            time.Time  `gorm:"not null" json:"end"`
	Difficulty     string     `gorm:"size:50" json:"difficulty,omitempty"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	TimingMode     TimingMode `gorm:"size:20;not null;default:'multi_day'" json:"timing_mode"`
	// Exactly one of DurationHours/DurationDays is set, per TimingMode.
	DurationHours         *int           `json:"duration_hours,omitempty"`
	DurationDays          *int           `json:"duration_days,omitempty"`
	TargetClientsPerGuide *int           `json:"target_clients_per_guide,omitempty"`
	Notes                 string         `gorm:"type:text" json:"notes,omitempty"`
	PricingSnapshot       datatypes.JSON `json:"pricing_snapshot,omitempty"`
	TemplateID            *uint          `gorm:"index" json:"template_id,omitempty"`
	TemplateSnapshot      datatypes.JSON `json:"template_snapshot,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`

	GuideService *GuideService `gorm:"foreignKey:GuideServiceID" json:"-"`
	Template     *TripTemplate `gorm:"foreignKey:TemplateID" json:"-"`
	Parties      []TripParty   `gorm:"foreignKey:TripID" json:"parties,omitempty"`
	Assignments  []Assignment  `gorm:"foreignKey:TripID" json:"assignments,omitempty"`
}

// Assignment books a guide onto a trip for its whole [start, end) window.
// Every row is mirrored by a derived assignment-sourced GuideAvailability block.
type Assignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TripID    uint      `gorm:"not null;uniqueIndex:idx_assignment_trip_guide" json:"trip_id"`
	GuideID   uint      `gorm:"not null;uniqueIndex:idx_assignment_trip_guide" json:"guide_id"`
	CreatedAt time.Time `json:"created_at"`

	Trip  *Trip `gorm:"foreignKey:TripID" json:"-"`
	Guide *User `gorm:"foreignKey:GuideID" json:"guide,omitempty"`
}
