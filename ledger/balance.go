package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Davsooonowy/TripWhizz/models"
)

// MemberBalance is one member's net position within a trip. Positive
// means the member is owed money, negative means the member owes money.
type MemberBalance struct {
	UserID  uuid.UUID
	Balance decimal.Decimal
}

// NetBalances folds a trip's expenses and settlements into a net
// position per member. Every member appears in the result, including
// members with no activity (balance 0.00).
//
// Expense shares and settlements are treated symmetrically as
// debt-adjusting events: an expense credits the payer with the full
// amount and debits every share's user with their owed amount (the
// payer's own share, if present, nets out); a settlement credits the
// payer and debits the payee, since it extinguishes a debt.
func NetBalances(memberIDs []uuid.UUID, expenses []models.Expense, settlements []models.Settlement) []MemberBalance {
	net := make(map[uuid.UUID]decimal.Decimal, len(memberIDs))
	for _, id := range memberIDs {
		net[id] = decimal.Zero
	}

	for _, e := range expenses {
		net[e.PaidBy] = net[e.PaidBy].Add(e.Amount)
		for _, s := range e.Shares {
			net[s.UserID] = net[s.UserID].Sub(s.OwedAmount)
		}
	}

	for _, s := range settlements {
		net[s.PayerID] = net[s.PayerID].Add(s.Amount)
		net[s.PayeeID] = net[s.PayeeID].Sub(s.Amount)
	}

	result := make([]MemberBalance, 0, len(memberIDs))
	for _, id := range memberIDs {
		result = append(result, MemberBalance{
			UserID:  id,
			Balance: net[id].Round(2),
		})
	}
	return result
}
