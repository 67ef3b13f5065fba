package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	d := decimal.RequireFromString("254.999")
	assert.Equal(t, "255.00", Format(d, 2))
	assert.Equal(t, "255", Format(d, 0))
	assert.Equal(t, "12.50", Format(decimal.RequireFromString("12.5"), 2))
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assert.True(t, Round(decimal.RequireFromString("2.5"), 0).Equal(decimal.NewFromInt(3)))
	assert.True(t, Round(decimal.RequireFromString("-2.5"), 0).Equal(decimal.NewFromInt(-3)))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Rs. 255", Label("PKR", decimal.NewFromInt(255), 0))
	assert.Equal(t, "USD 1.50", Label("USD", decimal.RequireFromString("1.5"), 2))
}
