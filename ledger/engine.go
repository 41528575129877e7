package ledger

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method is an expense split algorithm.
type Method string

const (
	MethodEqual      Method = "equal"
	MethodPercentage Method = "percentage"
	MethodExact      Method = "exact"
	MethodShares     Method = "shares"
)

// ParseMethod returns the split method for s, or false if s is not one
// of the four recognized methods.
func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodEqual, MethodPercentage, MethodExact, MethodShares:
		return Method(s), true
	}
	return "", false
}

var oneHundred = decimal.NewFromInt(100)

// Share is one participant's entry in a split request. The concrete
// variant must match the split method being computed.
type Share interface {
	shareUser() uuid.UUID
}

// EqualShare names a participant in an equal split.
type EqualShare struct {
	UserID uuid.UUID
}

// PercentageShare assigns a participant a percentage of the total.
type PercentageShare struct {
	UserID     uuid.UUID
	Percentage decimal.Decimal
}

// ExactShare carries a caller-supplied owed amount.
type ExactShare struct {
	UserID     uuid.UUID
	OwedAmount decimal.Decimal
}

// SharesShare weights a participant by a share count.
type SharesShare struct {
	UserID uuid.UUID
	Count  int
}

func (s EqualShare) shareUser() uuid.UUID      { return s.UserID }
func (s PercentageShare) shareUser() uuid.UUID { return s.UserID }
func (s ExactShare) shareUser() uuid.UUID      { return s.UserID }
func (s SharesShare) shareUser() uuid.UUID     { return s.UserID }

// ComputedShare is the engine's output for one participant. OwedAmount
// is always populated and rounded to two decimal places.
type ComputedShare struct {
	UserID      uuid.UUID
	Percentage  *decimal.Decimal
	SharesCount *int
	OwedAmount  decimal.Decimal
}

// ComputeShares validates a split request and computes every
// participant's owed amount. It is a pure function: the caller persists
// the result. Rounding drift in equal and shares splits is accepted and
// not reconciled against the total.
func ComputeShares(method Method, amount decimal.Decimal, shares []Share) ([]ComputedShare, error) {
	if len(shares) == 0 {
		return nil, ValidationError{"shares": "At least one share is required."}
	}

	seen := make(map[uuid.UUID]bool, len(shares))
	for _, s := range shares {
		id := s.shareUser()
		if seen[id] {
			return nil, ValidationError{"shares": fmt.Sprintf("Duplicate share for user %s.", id)}
		}
		seen[id] = true
	}

	switch method {
	case MethodEqual:
		return computeEqual(amount, shares)
	case MethodPercentage:
		return computePercentage(amount, shares)
	case MethodExact:
		return computeExact(amount, shares)
	case MethodShares:
		return computeByShares(amount, shares)
	}
	return nil, ValidationError{"split_method": "Invalid split method."}
}

func computeEqual(amount decimal.Decimal, shares []Share) ([]ComputedShare, error) {
	perPerson := amount.Div(decimal.NewFromInt(int64(len(shares)))).Round(2)

	result := make([]ComputedShare, 0, len(shares))
	for _, s := range shares {
		share, ok := s.(EqualShare)
		if !ok {
			return nil, ValidationError{"shares": "Invalid share entry for equal split."}
		}
		result = append(result, ComputedShare{
			UserID:     share.UserID,
			OwedAmount: perPerson,
		})
	}
	return result, nil
}

func computePercentage(amount decimal.Decimal, shares []Share) ([]ComputedShare, error) {
	total := decimal.Zero
	for _, s := range shares {
		share, ok := s.(PercentageShare)
		if !ok {
			return nil, ValidationError{"shares": "Invalid share entry for percentage split."}
		}
		if share.Percentage.IsNegative() || share.Percentage.GreaterThan(oneHundred) {
			return nil, ValidationError{"shares": "Percentages must be between 0 and 100."}
		}
		total = total.Add(share.Percentage)
	}
	if !total.Round(2).Equal(oneHundred) {
		return nil, ValidationError{"shares": "Percentages must sum to 100%."}
	}

	result := make([]ComputedShare, 0, len(shares))
	for _, s := range shares {
		share := s.(PercentageShare)
		pct := share.Percentage.Round(2)
		result = append(result, ComputedShare{
			UserID:     share.UserID,
			Percentage: &pct,
			OwedAmount: amount.Mul(share.Percentage).Div(oneHundred).Round(2),
		})
	}
	return result, nil
}

func computeExact(amount decimal.Decimal, shares []Share) ([]ComputedShare, error) {
	total := decimal.Zero
	for _, s := range shares {
		share, ok := s.(ExactShare)
		if !ok {
			return nil, ValidationError{"shares": "Invalid share entry for exact split."}
		}
		total = total.Add(share.OwedAmount)
	}
	if !total.Round(2).Equal(amount.Round(2)) {
		return nil, ValidationError{"shares": "Exact amounts must sum to total amount."}
	}

	result := make([]ComputedShare, 0, len(shares))
	for _, s := range shares {
		share := s.(ExactShare)
		result = append(result, ComputedShare{
			UserID:     share.UserID,
			OwedAmount: share.OwedAmount.Round(2),
		})
	}
	return result, nil
}

func computeByShares(amount decimal.Decimal, shares []Share) ([]ComputedShare, error) {
	totalShares := 0
	for _, s := range shares {
		share, ok := s.(SharesShare)
		if !ok {
			return nil, ValidationError{"shares": "Invalid share entry for shares split."}
		}
		if share.Count > 0 {
			totalShares += share.Count
		}
	}
	if totalShares <= 0 {
		return nil, ValidationError{"shares": "Total shares must be greater than 0."}
	}

	totalDec := decimal.NewFromInt(int64(totalShares))
	result := make([]ComputedShare, 0, len(shares))
	for _, s := range shares {
		share := s.(SharesShare)
		count := share.Count
		if count < 0 {
			count = 0
		}
		owed := decimal.Zero.Round(2)
		if count > 0 {
			owed = amount.Mul(decimal.NewFromInt(int64(count))).Div(totalDec).Round(2)
		}
		result = append(result, ComputedShare{
			UserID:      share.UserID,
			SharesCount: &count,
			OwedAmount:  owed,
		})
	}
	return result, nil
}

// BestEffortInt coerces an arbitrary JSON value to a non-negative share
// count. Numeric strings and floats are tolerated; anything unparsable
// coerces to 0. This permissiveness is intentional: share counts come
// from clients that historically sent them as strings or floats.
func BestEffortInt(v any) int {
	var n int
	switch value := v.(type) {
	case nil:
		return 0
	case int:
		n = value
	case int64:
		n = int(value)
	case float64:
		n = int(math.Trunc(value))
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0
		}
		n = int(math.Trunc(parsed))
	case decimal.Decimal:
		n = int(value.IntPart())
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
