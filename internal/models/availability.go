package models

import "time"

type AvailabilitySource string

const (
	SourceManual     AvailabilitySource = "manual"
	SourceAssignment AvailabilitySource = "assignment"
	SourceSync       AvailabilitySource = "sync"
)

type AvailabilityVisibility string

const (
	VisibilityPrivate AvailabilityVisibility = "private"
	VisibilityBusy    AvailabilityVisibility = "busy"
	VisibilityDetail  AvailabilityVisibility = "detail"
)

// GuideAvailability is one block on a guide's calendar. Assignment-sourced
// rows are fully derived: created, updated and deleted only by the propagator,
// one per (guide, trip), kept in lockstep with Assignment and Trip state.
type GuideAvailability struct {
	ID             uint                   `gorm:"primaryKey" json:"id"`
	GuideID        uint                   `gorm:"not null;index;uniqueIndex:idx_availability_guide_trip_source" json:"guide_id"`
	GuideServiceID *uint                  `gorm:"index" json:"guide_service_id,omitempty"`
	TripID         *uint                  `gorm:"uniqueIndex:idx_availability_guide_trip_source" json:"trip_id,omitempty"`
	Start          time.Time              `gorm:"not null;index" json:"start"`
	End            time.Time              `gorm:"not null" json:"end"`
	IsAvailable    bool                   `gorm:"not null;default:true" json:"is_available"`
	Source         AvailabilitySource     `gorm:"size:20;not null;default:'manual';uniqueIndex:idx_availability_guide_trip_source" json:"source"`
	Visibility     AvailabilityVisibility `gorm:"size:20;not null;default:'busy'" json:"visibility"`
	Note           string                 `gorm:"size:255" json:"note,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`

	Guide        *User         `gorm:"foreignKey:GuideID" json:"-"`
	GuideService *GuideService `gorm:"foreignKey:GuideServiceID" json:"-"`
	Trip         *Trip         `gorm:"foreignKey:TripID" json:"-"`
}
