package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Trip struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string            `gorm:"not null;size:100" json:"name"`
	Destination  string            `gorm:"size:255" json:"destination,omitempty"`
	StartDate    *time.Time        `gorm:"type:date" json:"start_date,omitempty"`
	EndDate      *time.Time        `gorm:"type:date" json:"end_date,omitempty"`
	OwnerID      uuid.UUID         `gorm:"type:uuid;index" json:"owner_id"`
	Owner        User              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Participants []TripParticipant `gorm:"foreignKey:TripID" json:"participants,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// MemberIDs returns the trip's full membership set: owner plus participants.
func (t *Trip) MemberIDs() []uuid.UUID {
	ids := []uuid.UUID{t.OwnerID}
	for _, p := range t.Participants {
		if p.UserID != t.OwnerID {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// IsMember reports whether the user is the owner or a participant.
func (t *Trip) IsMember(userID uuid.UUID) bool {
	if t.OwnerID == userID {
		return true
	}
	for _, p := range t.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

type TripParticipant struct {
	TripID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"trip_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// Request structs
type CreateTripRequest struct {
	Name         string   `json:"name" binding:"required"`
	Destination  string   `json:"destination"`
	StartDate    string   `json:"start_date"` // YYYY-MM-DD
	EndDate      string   `json:"end_date"`   // YYYY-MM-DD
	Participants []string `json:"participants"` // user IDs
}

type AddParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Response structs
type TripResponse struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Destination  string      `json:"destination,omitempty"`
	StartDate    *time.Time  `json:"start_date,omitempty"`
	EndDate      *time.Time  `json:"end_date,omitempty"`
	Owner        UserBasic   `json:"owner"`
	Participants []UserBasic `json:"participants"`
	CreatedAt    time.Time   `json:"created_at"`
}
