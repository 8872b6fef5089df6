package models

import "time"

// GuestProfile is a customer record keyed by lower-cased email. Guests never
// hold accounts; repeated bookings upsert into the same profile.
type GuestProfile struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Email                 string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName             string     `gorm:"size:120" json:"first_name"`
	LastName              string     `gorm:"size:120" json:"last_name"`
	Phone                 string     `gorm:"size:30" json:"phone,omitempty"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty"`
	EmergencyContactName  string     `gorm:"size:200" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `gorm:"size:30" json:"emergency_contact_phone,omitempty"`
	MedicalNotes          string     `gorm:"type:text" json:"medical_notes,omitempty"`
	DietaryNotes          string     `gorm:"type:text" json:"dietary_notes,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (g *GuestProfile) FullName() string {
	switch {
	case g.FirstName != "" && g.LastName != "":
		return g.FirstName + " " + g.LastName
	case g.FirstName != "":
		return g.FirstName
	case g.LastName != "":
		return g.LastName
	default:
		return ""
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentRefunded  PaymentStatus = "REFUNDED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

type InfoStatus string

const (
	InfoPending  InfoStatus = "PENDING"
	InfoComplete InfoStatus = "COMPLETE"
)

type WaiverStatus string

const (
	WaiverPending WaiverStatus = "PENDING"
	WaiverSigned  WaiverStatus = "SIGNED"
)

// TripParty is a trip's booking unit: one primary guest plus optional extra
// guests, a requested party size, and three independent status tracks.
type TripParty struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	TripID              uint          `gorm:"not null;index" json:"trip_id"`
	PrimaryGuestID      uint          `gorm:"not null" json:"primary_guest_id"`
	PartySize           int           `gorm:"not null;default:1" json:"party_size"`
	PaymentStatus       PaymentStatus `gorm:"size:12;not null;default:'PENDING'" json:"payment_status"`
	InfoStatus          InfoStatus    `gorm:"size:12;not null;default:'PENDING'" json:"info_status"`
	WaiverStatus        WaiverStatus  `gorm:"size:12;not null;default:'PENDING'" json:"waiver_status"`
	LastGuestActivityAt *time.Time    `json:"last_guest_activity_at,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`

	Trip         *Trip            `gorm:"foreignKey:TripID" json:"-"`
	PrimaryGuest *GuestProfile    `gorm:"foreignKey:PrimaryGuestID" json:"primary_guest,omitempty"`
	PartyGuests  []TripPartyGuest `gorm:"foreignKey:PartyID" json:"party_guests,omitempty"`
	Payments     []Payment        `gorm:"foreignKey:PartyID" json:"payments,omitempty"`
}

// DisplayStatus folds the three independent tracks into one label for lists.
// The tracks themselves never couple; this is read-side only.
func (p *TripParty) DisplayStatus() string {
	if p.PaymentStatus == PaymentCancelled {
		return "cancelled"
	}
	if p.PaymentStatus == PaymentPaid && p.InfoStatus == InfoComplete && p.WaiverStatus == WaiverSigned {
		return "ready"
	}
	if p.PaymentStatus == PaymentPaid {
		return "paid"
	}
	return "pending"
}

// TripPartyGuest joins a party to every attending guest; exactly one row per
// party has IsPrimary set.
type TripPartyGuest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PartyID   uint      `gorm:"not null;uniqueIndex:idx_party_guest" json:"party_id"`
	GuestID   uint      `gorm:"not null;uniqueIndex:idx_party_guest" json:"guest_id"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`

	Party *TripParty    `gorm:"foreignKey:PartyID" json:"-"`
	Guest *GuestProfile `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
}
