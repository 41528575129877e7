package ledger

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davsooonowy/TripWhizz/models"
)

// fakeStore is an in-memory ledger.Store for service tests.
type fakeStore struct {
	members     map[uuid.UUID][]uuid.UUID
	expenses    map[uuid.UUID]*models.Expense
	settlements []models.Settlement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:  map[uuid.UUID][]uuid.UUID{},
		expenses: map[uuid.UUID]*models.Expense{},
	}
}

func (f *fakeStore) TripMemberIDs(_ context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	members, ok := f.members[tripID]
	if !ok {
		return nil, &NotFoundError{Resource: "Trip"}
	}
	return members, nil
}

func (f *fakeStore) CreateExpense(_ context.Context, expense *models.Expense) error {
	expense.ID = uuid.New()
	for i := range expense.Shares {
		expense.Shares[i].ID = uuid.New()
		expense.Shares[i].ExpenseID = expense.ID
	}
	stored := *expense
	f.expenses[expense.ID] = &stored
	return nil
}

func (f *fakeStore) UpdateExpense(_ context.Context, expense *models.Expense) error {
	stored, ok := f.expenses[expense.ID]
	if !ok {
		return &NotFoundError{Resource: "Expense"}
	}
	shares := stored.Shares
	if expense.Shares != nil {
		shares = expense.Shares
		for i := range shares {
			shares[i].ID = uuid.New()
			shares[i].ExpenseID = expense.ID
		}
	}
	updated := *expense
	updated.Shares = shares
	f.expenses[expense.ID] = &updated
	return nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, tripID, expenseID uuid.UUID) error {
	expense, ok := f.expenses[expenseID]
	if !ok || expense.TripID != tripID {
		return &NotFoundError{Resource: "Expense"}
	}
	delete(f.expenses, expenseID)
	return nil
}

func (f *fakeStore) ExpenseByID(_ context.Context, tripID, expenseID uuid.UUID) (*models.Expense, error) {
	expense, ok := f.expenses[expenseID]
	if !ok || expense.TripID != tripID {
		return nil, &NotFoundError{Resource: "Expense"}
	}
	clone := *expense
	return &clone, nil
}

func (f *fakeStore) ExpensesByTrip(_ context.Context, tripID uuid.UUID) ([]models.Expense, error) {
	var expenses []models.Expense
	for _, e := range f.expenses {
		if e.TripID == tripID {
			expenses = append(expenses, *e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].ID.String() < expenses[j].ID.String()
	})
	return expenses, nil
}

func (f *fakeStore) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	settlement.ID = uuid.New()
	f.settlements = append(f.settlements, *settlement)
	return nil
}

func (f *fakeStore) SettlementByID(_ context.Context, tripID, settlementID uuid.UUID) (*models.Settlement, error) {
	for i := range f.settlements {
		if f.settlements[i].ID == settlementID && f.settlements[i].TripID == tripID {
			clone := f.settlements[i]
			return &clone, nil
		}
	}
	return nil, &NotFoundError{Resource: "Settlement"}
}

func (f *fakeStore) SettlementsByTrip(_ context.Context, tripID uuid.UUID) ([]models.Settlement, error) {
	var settlements []models.Settlement
	for _, s := range f.settlements {
		if s.TripID == tripID {
			settlements = append(settlements, s)
		}
	}
	return settlements, nil
}

func newTestService() (*Service, *fakeStore, uuid.UUID, uuid.UUID, uuid.UUID) {
	store := newFakeStore()
	tripID := uuid.New()
	owner := uuid.New()
	participant := uuid.New()
	store.members[tripID] = []uuid.UUID{owner, participant}
	return NewService(store, "PLN"), store, tripID, owner, participant
}

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestAddExpenseEqualSplit(t *testing.T) {
	svc, store, tripID, owner, participant := newTestService()

	expense, err := svc.AddExpense(context.Background(), tripID, models.CreateExpenseRequest{
		Description: "Hotel",
		Amount:      amountPtr("100.00"),
		PaidByID:    owner.String(),
		SplitMethod: "equal",
		Shares: []models.ShareInput{
			{UserID: owner.String()},
			{UserID: participant.String()},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PLN", expense.Currency)
	assert.Equal(t, "equal", expense.SplitMethod)
	require.Len(t, expense.Shares, 2)
	for _, s := range expense.Shares {
		assert.Equal(t, "50.00", s.OwedAmount.StringFixed(2))
	}

	stored := store.expenses[expense.ID]
	require.NotNil(t, stored)
	assert.Len(t, stored.Shares, 2)
}

func TestAddExpenseLenientShareCounts(t *testing.T) {
	svc, _, tripID, owner, participant := newTestService()

	expense, err := svc.AddExpense(context.Background(), tripID, models.CreateExpenseRequest{
		Description: "Dinner",
		Amount:      amountPtr("90.00"),
		PaidByID:    owner.String(),
		SplitMethod: "shares",
		Shares: []models.ShareInput{
			{UserID: owner.String(), SharesCount: "2"},     // numeric string
			{UserID: participant.String(), SharesCount: 1.0}, // float
		},
	})
	require.NoError(t, err)
	require.Len(t, expense.Shares, 2)
	assert.Equal(t, "60.00", expense.Shares[0].OwedAmount.StringFixed(2))
	assert.Equal(t, "30.00", expense.Shares[1].OwedAmount.StringFixed(2))
}

func TestAddExpenseValidation(t *testing.T) {
	svc, _, tripID, owner, participant := newTestService()
	outsider := uuid.New()

	tests := []struct {
		name      string
		req       models.CreateExpenseRequest
		wantField string
		wantMsg   string
	}{
		{
			name: "missing amount",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				PaidByID:    owner.String(),
				SplitMethod: "equal",
				Shares:      []models.ShareInput{{UserID: owner.String()}},
			},
			wantField: "amount",
			wantMsg:   "This field is required.",
		},
		{
			name: "invalid split method",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				Amount:      amountPtr("10.00"),
				PaidByID:    owner.String(),
				SplitMethod: "evenly",
				Shares:      []models.ShareInput{{UserID: owner.String()}},
			},
			wantField: "split_method",
			wantMsg:   "Invalid split method.",
		},
		{
			name: "payer not a member",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				Amount:      amountPtr("10.00"),
				PaidByID:    outsider.String(),
				SplitMethod: "equal",
				Shares:      []models.ShareInput{{UserID: owner.String()}},
			},
			wantField: "paid_by_id",
			wantMsg:   "Payer must be a trip member.",
		},
		{
			name: "share user not a member",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				Amount:      amountPtr("10.00"),
				PaidByID:    owner.String(),
				SplitMethod: "equal",
				Shares: []models.ShareInput{
					{UserID: participant.String()},
					{UserID: outsider.String()},
				},
			},
			wantField: "shares",
			wantMsg:   "User " + outsider.String() + " is not a trip member",
		},
		{
			name: "no shares",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				Amount:      amountPtr("10.00"),
				PaidByID:    owner.String(),
				SplitMethod: "equal",
			},
			wantField: "shares",
			wantMsg:   "At least one share is required.",
		},
		{
			name: "missing split method",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				Amount:      amountPtr("10.00"),
				PaidByID:    owner.String(),
				Shares:      []models.ShareInput{{UserID: owner.String()}},
			},
			wantField: "split_method",
			wantMsg:   "Invalid split method.",
		},
		{
			name: "missing description",
			req: models.CreateExpenseRequest{
				Amount:      amountPtr("10.00"),
				PaidByID:    owner.String(),
				SplitMethod: "equal",
				Shares:      []models.ShareInput{{UserID: owner.String()}},
			},
			wantField: "description",
			wantMsg:   "This field is required.",
		},
		{
			name: "missing payer",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				Amount:      amountPtr("10.00"),
				SplitMethod: "equal",
				Shares:      []models.ShareInput{{UserID: owner.String()}},
			},
			wantField: "paid_by_id",
			wantMsg:   "This field is required.",
		},
		{
			name: "negative amount",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				Amount:      amountPtr("-10.00"),
				PaidByID:    owner.String(),
				SplitMethod: "equal",
				Shares:      []models.ShareInput{{UserID: owner.String()}},
			},
			wantField: "amount",
			wantMsg:   "Amount must be greater than 0.",
		},
		{
			name: "zero amount",
			req: models.CreateExpenseRequest{
				Description: "Taxi",
				Amount:      amountPtr("0.00"),
				PaidByID:    owner.String(),
				SplitMethod: "equal",
				Shares:      []models.ShareInput{{UserID: owner.String()}},
			},
			wantField: "amount",
			wantMsg:   "Amount must be greater than 0.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExpense(context.Background(), tripID, tt.req)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantMsg, ve[tt.wantField])
		})
	}
}

func TestAddExpenseUnknownTrip(t *testing.T) {
	svc, _, _, owner, _ := newTestService()

	_, err := svc.AddExpense(context.Background(), uuid.New(), models.CreateExpenseRequest{
		Description: "Taxi",
		Amount:      amountPtr("10.00"),
		PaidByID:    owner.String(),
		SplitMethod: "equal",
		Shares:      []models.ShareInput{{UserID: owner.String()}},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Trip not found", nf.Error())
}

func TestEditExpenseReplacesShares(t *testing.T) {
	svc, store, tripID, owner, participant := newTestService()
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, tripID, models.CreateExpenseRequest{
		Description: "Groceries",
		Amount:      amountPtr("100.00"),
		PaidByID:    owner.String(),
		SplitMethod: "percentage",
		Shares: []models.ShareInput{
			{UserID: owner.String(), Percentage: amountPtr("70")},
			{UserID: participant.String(), Percentage: amountPtr("30")},
		},
	})
	require.NoError(t, err)

	method := "equal"
	updated, err := svc.EditExpense(ctx, tripID, expense.ID, models.UpdateExpenseRequest{
		SplitMethod: &method,
		Shares: []models.ShareInput{
			{UserID: owner.String()},
			{UserID: participant.String()},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "equal", updated.SplitMethod)
	require.Len(t, updated.Shares, 2)
	for _, s := range updated.Shares {
		// No percentage survives from the previous split method.
		assert.Nil(t, s.Percentage)
		assert.Equal(t, "50.00", s.OwedAmount.StringFixed(2))
	}
	assert.Len(t, store.expenses[expense.ID].Shares, 2)
}

func TestEditExpenseAmountOnlyRecomputes(t *testing.T) {
	svc, _, tripID, owner, participant := newTestService()
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, tripID, models.CreateExpenseRequest{
		Description: "Museum",
		Amount:      amountPtr("100.00"),
		PaidByID:    owner.String(),
		SplitMethod: "equal",
		Shares: []models.ShareInput{
			{UserID: owner.String()},
			{UserID: participant.String()},
		},
	})
	require.NoError(t, err)

	updated, err := svc.EditExpense(ctx, tripID, expense.ID, models.UpdateExpenseRequest{
		Amount: amountPtr("80.00"),
	})
	require.NoError(t, err)
	require.Len(t, updated.Shares, 2)
	for _, s := range updated.Shares {
		assert.Equal(t, "40.00", s.OwedAmount.StringFixed(2))
	}
}

func TestEditExpenseNonPositiveAmountRejected(t *testing.T) {
	svc, store, tripID, owner, participant := newTestService()
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, tripID, models.CreateExpenseRequest{
		Description: "Bikes",
		Amount:      amountPtr("60.00"),
		PaidByID:    owner.String(),
		SplitMethod: "equal",
		Shares: []models.ShareInput{
			{UserID: owner.String()},
			{UserID: participant.String()},
		},
	})
	require.NoError(t, err)

	_, err = svc.EditExpense(ctx, tripID, expense.ID, models.UpdateExpenseRequest{
		Amount: amountPtr("-60.00"),
	})
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Amount must be greater than 0.", ve["amount"])

	// The stored expense is untouched.
	assert.Equal(t, "60.00", store.expenses[expense.ID].Amount.StringFixed(2))
}

func TestEditExpenseExactAmountMismatchRejected(t *testing.T) {
	svc, _, tripID, owner, participant := newTestService()
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, tripID, models.CreateExpenseRequest{
		Description: "Tickets",
		Amount:      amountPtr("100.00"),
		PaidByID:    owner.String(),
		SplitMethod: "exact",
		Shares: []models.ShareInput{
			{UserID: owner.String(), OwedAmount: amountPtr("40.00")},
			{UserID: participant.String(), OwedAmount: amountPtr("60.00")},
		},
	})
	require.NoError(t, err)

	// Changing the amount without new shares re-validates the old exact
	// amounts against the new total and fails.
	_, err = svc.EditExpense(ctx, tripID, expense.ID, models.UpdateExpenseRequest{
		Amount: amountPtr("120.00"),
	})
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Exact amounts must sum to total amount.", ve["shares"])
}

func TestEditExpenseFieldOnlyKeepsShares(t *testing.T) {
	svc, store, tripID, owner, participant := newTestService()
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, tripID, models.CreateExpenseRequest{
		Description: "Lunch",
		Amount:      amountPtr("60.00"),
		PaidByID:    owner.String(),
		SplitMethod: "equal",
		Shares: []models.ShareInput{
			{UserID: owner.String()},
			{UserID: participant.String()},
		},
	})
	require.NoError(t, err)

	desc := "Lunch at the pier"
	updated, err := svc.EditExpense(ctx, tripID, expense.ID, models.UpdateExpenseRequest{
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	require.Len(t, store.expenses[expense.ID].Shares, 2)
	assert.Equal(t, "30.00", store.expenses[expense.ID].Shares[0].OwedAmount.StringFixed(2))
}

func TestRemoveExpenseDropsItFromBalances(t *testing.T) {
	svc, _, tripID, owner, participant := newTestService()
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, tripID, models.CreateExpenseRequest{
		Description: "Kayaks",
		Amount:      amountPtr("100.00"),
		PaidByID:    owner.String(),
		SplitMethod: "equal",
		Shares: []models.ShareInput{
			{UserID: owner.String()},
			{UserID: participant.String()},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveExpense(ctx, tripID, expense.ID))

	_, err = svc.Expense(ctx, tripID, expense.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	balances, err := svc.Balances(ctx, tripID)
	require.NoError(t, err)
	for _, b := range balances {
		assert.Equal(t, "0.00", b.Balance.StringFixed(2))
	}
}

func TestRemoveExpenseScopedByTrip(t *testing.T) {
	svc, store, tripID, owner, participant := newTestService()
	ctx := context.Background()

	otherTrip := uuid.New()
	store.members[otherTrip] = []uuid.UUID{owner}

	expense, err := svc.AddExpense(ctx, tripID, models.CreateExpenseRequest{
		Description: "Ferry",
		Amount:      amountPtr("20.00"),
		PaidByID:    owner.String(),
		SplitMethod: "equal",
		Shares: []models.ShareInput{
			{UserID: owner.String()},
			{UserID: participant.String()},
		},
	})
	require.NoError(t, err)

	err = svc.RemoveExpense(ctx, otherTrip, expense.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestAddSettlementValidation(t *testing.T) {
	svc, _, tripID, owner, participant := newTestService()
	outsider := uuid.New()

	tests := []struct {
		name      string
		req       models.CreateSettlementRequest
		wantField string
		wantMsg   string
	}{
		{
			name: "payer equals payee",
			req: models.CreateSettlementRequest{
				PayerID: owner.String(),
				PayeeID: owner.String(),
				Amount:  amountPtr("10.00"),
			},
			wantField: "payee_id",
			wantMsg:   "Payer and payee must be different users.",
		},
		{
			name: "non-positive amount",
			req: models.CreateSettlementRequest{
				PayerID: participant.String(),
				PayeeID: owner.String(),
				Amount:  amountPtr("0.00"),
			},
			wantField: "amount",
			wantMsg:   "Amount must be greater than 0.",
		},
		{
			name: "missing amount",
			req: models.CreateSettlementRequest{
				PayerID: participant.String(),
				PayeeID: owner.String(),
			},
			wantField: "amount",
			wantMsg:   "This field is required.",
		},
		{
			name: "payee not a member",
			req: models.CreateSettlementRequest{
				PayerID: participant.String(),
				PayeeID: outsider.String(),
				Amount:  amountPtr("10.00"),
			},
			wantField: "payee_id",
			wantMsg:   "User " + outsider.String() + " is not a trip member",
		},
		{
			name: "missing payer",
			req: models.CreateSettlementRequest{
				PayeeID: owner.String(),
				Amount:  amountPtr("10.00"),
			},
			wantField: "payer_id",
			wantMsg:   "This field is required.",
		},
		{
			name: "missing payee",
			req: models.CreateSettlementRequest{
				PayerID: participant.String(),
				Amount:  amountPtr("10.00"),
			},
			wantField: "payee_id",
			wantMsg:   "This field is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddSettlement(context.Background(), tripID, tt.req)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantMsg, ve[tt.wantField])
		})
	}
}

func TestSettlementBalancesScenario(t *testing.T) {
	svc, _, tripID, owner, participant := newTestService()
	ctx := context.Background()

	_, err := svc.AddExpense(ctx, tripID, models.CreateExpenseRequest{
		Description: "Cabin",
		Amount:      amountPtr("100.00"),
		PaidByID:    owner.String(),
		SplitMethod: "equal",
		Shares: []models.ShareInput{
			{UserID: owner.String()},
			{UserID: participant.String()},
		},
	})
	require.NoError(t, err)

	balances, err := svc.Balances(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", balanceOf(t, balances, owner).StringFixed(2))
	assert.Equal(t, "-50.00", balanceOf(t, balances, participant).StringFixed(2))

	settlement, err := svc.AddSettlement(ctx, tripID, models.CreateSettlementRequest{
		PayerID: participant.String(),
		PayeeID: owner.String(),
		Amount:  amountPtr("50.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "PLN", settlement.Currency)

	balances, err = svc.Balances(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", balanceOf(t, balances, owner).StringFixed(2))
	assert.Equal(t, "0.00", balanceOf(t, balances, participant).StringFixed(2))
}
