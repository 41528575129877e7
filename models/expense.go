package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TripID      uuid.UUID       `gorm:"type:uuid;index" json:"trip_id"`
	Trip        Trip            `gorm:"foreignKey:TripID" json:"-"`
	PaidBy      uuid.UUID       `gorm:"type:uuid" json:"paid_by"`
	Payer       User            `gorm:"foreignKey:PaidBy" json:"payer,omitempty"`
	Description string          `gorm:"not null;size:255" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency    string          `gorm:"default:PLN;size:10" json:"currency"`
	SplitMethod string          `gorm:"not null;size:20" json:"split_method"` // equal, percentage, exact, shares
	Shares      []ExpenseShare  `gorm:"foreignKey:ExpenseID" json:"shares,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type ExpenseShare struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID   uuid.UUID        `gorm:"type:uuid;index;uniqueIndex:idx_expense_user" json:"expense_id"`
	UserID      uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_expense_user" json:"user_id"`
	User        User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Percentage  *decimal.Decimal `gorm:"type:decimal(5,2)" json:"percentage,omitempty"`
	SharesCount *int             `json:"shares_count,omitempty"`
	OwedAmount  decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"owed_amount"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (es *ExpenseShare) BeforeCreate(tx *gorm.DB) error {
	if es.ID == uuid.Nil {
		es.ID = uuid.New()
	}
	return nil
}

// Request structs
type ShareInput struct {
	UserID     string           `json:"user_id"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	OwedAmount *decimal.Decimal `json:"owed_amount,omitempty"`
	// SharesCount deliberately accepts any JSON value; see ledger.BestEffortInt.
	SharesCount any `json:"shares_count,omitempty"`
}

// Required fields are validated by the ledger service so missing ones
// surface as field-keyed errors, not binder failures.
type CreateExpenseRequest struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    string           `json:"currency"`
	PaidByID    string           `json:"paid_by_id"`
	SplitMethod string           `json:"split_method"`
	Shares      []ShareInput     `json:"shares"`
}

type UpdateExpenseRequest struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency"`
	PaidByID    *string          `json:"paid_by_id"`
	SplitMethod *string          `json:"split_method"`
	Shares      []ShareInput     `json:"shares"`
}

// Response structs
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Trip        uuid.UUID       `json:"trip"`
	Description string          `json:"description"`
	Amount      Money           `json:"amount"`
	Currency    string          `json:"currency"`
	PaidBy      UserBasic       `json:"paid_by"`
	SplitMethod string          `json:"split_method"`
	Shares      []ShareResponse `json:"shares"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ShareResponse struct {
	ID          uuid.UUID `json:"id"`
	User        UserBasic `json:"user"`
	Percentage  *Money    `json:"percentage"`
	SharesCount *int      `json:"shares_count"`
	OwedAmount  Money     `json:"owed_amount"`
}
