package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Davsooonowy/TripWhizz/models"
)

// Store is the persistence boundary of the ledger. Mutating operations
// must be atomic: an expense and its shares are committed or rolled
// back together, never partially.
type Store interface {
	// TripMemberIDs returns the trip's membership set: owner plus
	// participants.
	TripMemberIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)

	// CreateExpense persists an expense together with its shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// UpdateExpense saves the expense's fields and, when
	// expense.Shares is non-nil, deletes all existing shares and
	// inserts the given set in the same transaction.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes the expense and its shares. Lookup is
	// scoped by trip id.
	DeleteExpense(ctx context.Context, tripID, expenseID uuid.UUID) error

	ExpenseByID(ctx context.Context, tripID, expenseID uuid.UUID) (*models.Expense, error)
	ExpensesByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error)

	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	SettlementByID(ctx context.Context, tripID, settlementID uuid.UUID) (*models.Settlement, error)
	SettlementsByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Settlement, error)
}

// Service implements the trip ledger: recording expenses with computed
// shares, recording settlements, and computing per-member net balances.
// Membership resolution and persistence are injected through Store.
type Service struct {
	store           Store
	defaultCurrency string
}

func NewService(store Store, defaultCurrency string) *Service {
	return &Service{store: store, defaultCurrency: defaultCurrency}
}

// AddExpense validates the request, computes the share set and persists
// both atomically. Validation happens entirely before any side effect.
func (s *Service) AddExpense(ctx context.Context, tripID uuid.UUID, req models.CreateExpenseRequest) (*models.Expense, error) {
	members, err := s.store.TripMemberIDs(ctx, tripID)
	if err != nil {
		return nil, err
	}
	memberSet := toSet(members)

	errs := ValidationError{}

	if req.Description == "" {
		errs["description"] = "This field is required."
	}

	if req.Amount == nil {
		errs["amount"] = "This field is required."
	} else if !req.Amount.IsPositive() {
		errs["amount"] = "Amount must be greater than 0."
	}

	method, ok := ParseMethod(req.SplitMethod)
	if !ok {
		errs["split_method"] = "Invalid split method."
	}

	var paidBy uuid.UUID
	if req.PaidByID == "" {
		errs["paid_by_id"] = "This field is required."
	} else if id, err := uuid.Parse(req.PaidByID); err != nil {
		errs["paid_by_id"] = "Invalid user ID."
	} else if !memberSet[id] {
		errs["paid_by_id"] = "Payer must be a trip member."
	} else {
		paidBy = id
	}

	if len(errs) > 0 {
		return nil, errs
	}

	shares, err := buildShares(method, req.Shares, memberSet)
	if err != nil {
		return nil, err
	}

	computed, err := ComputeShares(method, *req.Amount, shares)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	expense := &models.Expense{
		TripID:      tripID,
		PaidBy:      paidBy,
		Description: req.Description,
		Amount:      req.Amount.Round(2),
		Currency:    currency,
		SplitMethod: string(method),
		Shares:      toExpenseShares(computed),
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// EditExpense applies a partial update. When the amount, split method
// or share list changes, the full share set is re-validated, recomputed
// and replaced; shares from the previous split method never survive.
func (s *Service) EditExpense(ctx context.Context, tripID, expenseID uuid.UUID, req models.UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.store.ExpenseByID(ctx, tripID, expenseID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.TripMemberIDs(ctx, tripID)
	if err != nil {
		return nil, err
	}
	memberSet := toSet(members)

	errs := ValidationError{}

	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Currency != nil {
		expense.Currency = *req.Currency
	}
	if req.PaidByID != nil {
		paidBy, err := uuid.Parse(*req.PaidByID)
		if err != nil {
			errs["paid_by_id"] = "Invalid user ID."
		} else if !memberSet[paidBy] {
			errs["paid_by_id"] = "Payer must be a trip member."
		} else {
			expense.PaidBy = paidBy
		}
	}

	method := Method(expense.SplitMethod)
	if req.SplitMethod != nil {
		parsed, ok := ParseMethod(*req.SplitMethod)
		if !ok {
			errs["split_method"] = "Invalid split method."
		} else {
			method = parsed
		}
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			errs["amount"] = "Amount must be greater than 0."
		} else {
			expense.Amount = req.Amount.Round(2)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	recompute := req.Amount != nil || req.SplitMethod != nil || req.Shares != nil
	if recompute {
		inputs := req.Shares
		if inputs == nil {
			inputs = shareInputsFrom(expense.Shares)
		}

		shares, err := buildShares(method, inputs, memberSet)
		if err != nil {
			return nil, err
		}

		computed, err := ComputeShares(method, expense.Amount, shares)
		if err != nil {
			return nil, err
		}

		expense.SplitMethod = string(method)
		expense.Shares = toExpenseShares(computed)
	} else {
		// Field-only update: leave the persisted share set untouched.
		expense.Shares = nil
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return s.store.ExpenseByID(ctx, tripID, expenseID)
}

// RemoveExpense deletes the expense and cascades to its shares.
func (s *Service) RemoveExpense(ctx context.Context, tripID, expenseID uuid.UUID) error {
	return s.store.DeleteExpense(ctx, tripID, expenseID)
}

func (s *Service) Expense(ctx context.Context, tripID, expenseID uuid.UUID) (*models.Expense, error) {
	return s.store.ExpenseByID(ctx, tripID, expenseID)
}

func (s *Service) Expenses(ctx context.Context, tripID uuid.UUID) ([]models.Expense, error) {
	return s.store.ExpensesByTrip(ctx, tripID)
}

// AddSettlement records an immutable payer → payee payment.
func (s *Service) AddSettlement(ctx context.Context, tripID uuid.UUID, req models.CreateSettlementRequest) (*models.Settlement, error) {
	members, err := s.store.TripMemberIDs(ctx, tripID)
	if err != nil {
		return nil, err
	}
	memberSet := toSet(members)

	errs := ValidationError{}

	if req.Amount == nil {
		errs["amount"] = "This field is required."
	} else if !req.Amount.IsPositive() {
		errs["amount"] = "Amount must be greater than 0."
	}

	payer, payerErr := uuid.Parse(req.PayerID)
	if req.PayerID == "" {
		errs["payer_id"] = "This field is required."
	} else if payerErr != nil {
		errs["payer_id"] = "Invalid user ID."
	} else if !memberSet[payer] {
		errs["payer_id"] = fmt.Sprintf("User %s is not a trip member", payer)
	}

	payee, payeeErr := uuid.Parse(req.PayeeID)
	if req.PayeeID == "" {
		errs["payee_id"] = "This field is required."
	} else if payeeErr != nil {
		errs["payee_id"] = "Invalid user ID."
	} else if !memberSet[payee] {
		errs["payee_id"] = fmt.Sprintf("User %s is not a trip member", payee)
	}

	if payerErr == nil && payeeErr == nil && payer == payee {
		errs["payee_id"] = "Payer and payee must be different users."
	}

	if len(errs) > 0 {
		return nil, errs
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	settlement := &models.Settlement{
		TripID:   tripID,
		PayerID:  payer,
		PayeeID:  payee,
		Amount:   req.Amount.Round(2),
		Currency: currency,
		Note:     req.Note,
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

func (s *Service) Settlement(ctx context.Context, tripID, settlementID uuid.UUID) (*models.Settlement, error) {
	return s.store.SettlementByID(ctx, tripID, settlementID)
}

func (s *Service) Settlements(ctx context.Context, tripID uuid.UUID) ([]models.Settlement, error) {
	return s.store.SettlementsByTrip(ctx, tripID)
}

// Balances recomputes every member's net position from the trip's full
// expense and settlement history. The computation is read-only and
// idempotent.
func (s *Service) Balances(ctx context.Context, tripID uuid.UUID) ([]MemberBalance, error) {
	members, err := s.store.TripMemberIDs(ctx, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.SettlementsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return NetBalances(members, expenses, settlements), nil
}

// buildShares converts raw share inputs into the tagged variant for the
// split method, validating user ids and trip membership along the way.
func buildShares(method Method, inputs []models.ShareInput, memberSet map[uuid.UUID]bool) ([]Share, error) {
	shares := make([]Share, 0, len(inputs))
	for _, in := range inputs {
		userID, err := uuid.Parse(in.UserID)
		if err != nil {
			return nil, ValidationError{"shares": fmt.Sprintf("Invalid user ID: %s.", in.UserID)}
		}
		if !memberSet[userID] {
			return nil, ValidationError{"shares": fmt.Sprintf("User %s is not a trip member", userID)}
		}

		switch method {
		case MethodEqual:
			shares = append(shares, EqualShare{UserID: userID})
		case MethodPercentage:
			pct := decimal.Zero
			if in.Percentage != nil {
				pct = *in.Percentage
			}
			shares = append(shares, PercentageShare{UserID: userID, Percentage: pct})
		case MethodExact:
			owed := decimal.Zero
			if in.OwedAmount != nil {
				owed = *in.OwedAmount
			}
			shares = append(shares, ExactShare{UserID: userID, OwedAmount: owed})
		case MethodShares:
			shares = append(shares, SharesShare{UserID: userID, Count: BestEffortInt(in.SharesCount)})
		}
	}
	return shares, nil
}

// shareInputsFrom reconstructs share inputs from a persisted share set,
// so a partial update without a share list re-validates against the
// previously supplied values.
func shareInputsFrom(shares []models.ExpenseShare) []models.ShareInput {
	inputs := make([]models.ShareInput, 0, len(shares))
	for _, s := range shares {
		in := models.ShareInput{
			UserID:     s.UserID.String(),
			Percentage: s.Percentage,
		}
		owed := s.OwedAmount
		in.OwedAmount = &owed
		if s.SharesCount != nil {
			in.SharesCount = *s.SharesCount
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func toExpenseShares(computed []ComputedShare) []models.ExpenseShare {
	shares := make([]models.ExpenseShare, 0, len(computed))
	for _, c := range computed {
		shares = append(shares, models.ExpenseShare{
			UserID:      c.UserID,
			Percentage:  c.Percentage,
			SharesCount: c.SharesCount,
			OwedAmount:  c.OwedAmount,
		})
	}
	return shares
}

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
