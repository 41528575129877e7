package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Davsooonowy/TripWhizz/ledger"
	"github.com/Davsooonowy/TripWhizz/models"
)

// GormStore implements ledger.Store on top of Postgres via GORM.
// Mutations run inside a transaction so an expense and its shares are
// never observable in a half-written state.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ ledger.Store = (*GormStore)(nil)

func (s *GormStore) TripMemberIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	var trip models.Trip
	err := s.db.WithContext(ctx).Preload("Participants").First(&trip, "id = ?", tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ledger.NotFoundError{Resource: "Trip"}
	}
	if err != nil {
		return nil, err
	}
	return trip.MemberIDs(), nil
}

func (s *GormStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shares := expense.Shares
		expense.Shares = nil
		if err := tx.Create(expense).Error; err != nil {
			return err
		}
		for i := range shares {
			shares[i].ExpenseID = expense.ID
		}
		if err := tx.Create(&shares).Error; err != nil {
			return err
		}
		expense.Shares = shares
		return nil
	})
}

func (s *GormStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Expense{}).Where("id = ?", expense.ID).Updates(map[string]interface{}{
			"description":  expense.Description,
			"amount":       expense.Amount,
			"currency":     expense.Currency,
			"paid_by":      expense.PaidBy,
			"split_method": expense.SplitMethod,
		}).Error
		if err != nil {
			return err
		}

		if expense.Shares == nil {
			return nil
		}

		// Full replace: no shares from a previous split method survive.
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseShare{}).Error; err != nil {
			return err
		}
		shares := expense.Shares
		for i := range shares {
			shares[i].ID = uuid.Nil
			shares[i].ExpenseID = expense.ID
		}
		return tx.Create(&shares).Error
	})
}

func (s *GormStore) DeleteExpense(ctx context.Context, tripID, expenseID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		err := tx.First(&expense, "id = ? AND trip_id = ?", expenseID, tripID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Resource: "Expense"}
		}
		if err != nil {
			return err
		}
		if err := tx.Where("expense_id = ?", expenseID).Delete(&models.ExpenseShare{}).Error; err != nil {
			return err
		}
		return tx.Delete(&expense).Error
	})
}

func (s *GormStore) ExpenseByID(ctx context.Context, tripID, expenseID uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.WithContext(ctx).
		Preload("Payer").
		Preload("Shares").
		Preload("Shares.User").
		First(&expense, "id = ? AND trip_id = ?", expenseID, tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ledger.NotFoundError{Resource: "Expense"}
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *GormStore) ExpensesByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.WithContext(ctx).
		Preload("Payer").
		Preload("Shares").
		Preload("Shares.User").
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&expenses).Error
	return expenses, err
}

func (s *GormStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	return s.db.WithContext(ctx).Create(settlement).Error
}

func (s *GormStore) SettlementByID(ctx context.Context, tripID, settlementID uuid.UUID) (*models.Settlement, error) {
	var settlement models.Settlement
	err := s.db.WithContext(ctx).
		Preload("Payer").
		Preload("Payee").
		First(&settlement, "id = ? AND trip_id = ?", settlementID, tripID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ledger.NotFoundError{Resource: "Settlement"}
	}
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (s *GormStore) SettlementsByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := s.db.WithContext(ctx).
		Preload("Payer").
		Preload("Payee").
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&settlements).Error
	return settlements, err
}
