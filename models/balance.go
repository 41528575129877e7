package models

// BalanceEntry is one trip member's net position: positive means the
// member is owed money, negative means the member owes money.
type BalanceEntry struct {
	User    UserBasic `json:"user"`
	Balance Money     `json:"balance"`
}
