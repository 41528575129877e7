package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Settlement records a direct payer → payee payment inside a trip.
// Settlements are immutable once created.
type Settlement struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TripID    uuid.UUID       `gorm:"type:uuid;index" json:"trip_id"`
	Trip      Trip            `gorm:"foreignKey:TripID" json:"-"`
	PayerID   uuid.UUID       `gorm:"type:uuid" json:"payer_id"`
	Payer     User            `gorm:"foreignKey:PayerID" json:"payer,omitempty"`
	PayeeID   uuid.UUID       `gorm:"type:uuid" json:"payee_id"`
	Payee     User            `gorm:"foreignKey:PayeeID" json:"payee,omitempty"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency  string          `gorm:"default:PLN;size:10" json:"currency"`
	Note      string          `gorm:"size:255" json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (s *Settlement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Required fields are validated by the ledger service so missing ones
// surface as field-keyed errors, not binder failures.
type CreateSettlementRequest struct {
	PayerID  string           `json:"payer_id"`
	PayeeID  string           `json:"payee_id"`
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency"`
	Note     string           `json:"note"`
}

type SettlementResponse struct {
	ID        uuid.UUID `json:"id"`
	Trip      uuid.UUID `json:"trip"`
	Payer     UserBasic `json:"payer"`
	Payee     UserBasic `json:"payee"`
	Amount    Money     `json:"amount"`
	Currency  string    `json:"currency"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
