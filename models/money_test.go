package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyMarshalsTwoDecimalPlaces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50", `"50.00"`},
		{"50.5", `"50.50"`},
		{"-0.005", `"-0.01"`},
		{"0", `"0.00"`},
		{"33.333", `"33.33"`},
	}

	for _, tt := range tests {
		raw, err := json.Marshal(NewMoney(decimal.RequireFromString(tt.in)))
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(raw))
	}
}

func TestMoneyUnmarshalRoundTrip(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"42.37"`), &m))
	assert.Equal(t, "42.37", m.StringFixed(2))

	require.NoError(t, json.Unmarshal([]byte(`13.5`), &m))
	assert.Equal(t, "13.50", m.StringFixed(2))
}
