package ledger

import (
	"sort"
	"strings"
)

// ValidationError maps an input field to the reason it was rejected.
// It renders as the 400 response body.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(e))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// NotFoundError signals that a resource does not exist in the scope of
// the request. It renders as a 404 response.
type NotFoundError struct {
	Resource string // "Trip", "Expense", "Settlement"
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}
