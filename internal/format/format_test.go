package format

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    decimal.Decimal
		expected string
	}{
		{name: "zero", input: decimal.Zero, expected: "$0.00"},
		{name: "cents are padded", input: decimal.RequireFromString("109.5"), expected: "$109.50"},
		{name: "thousands are grouped", input: decimal.RequireFromString("1234.5"), expected: "$1,234.50"},
		{name: "rounds to cents", input: decimal.RequireFromString("22.305"), expected: "$22.31"},
		{name: "single cent", input: decimal.RequireFromString("0.01"), expected: "$0.01"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, FormatPrice(test.input))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Electronics", Capitalize("electronics"))
	assert.Equal(t, "Men's clothing", Capitalize("men's clothing"))
	assert.Equal(t, "Ñandú", Capitalize("ñandú"))
	assert.Equal(t, "", Capitalize(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "lon...", Truncate("longer text", 3))
	assert.Equal(t, "añá...", Truncate("añádido", 3))
}

func TestDebounceOnlyLastCallFires(t *testing.T) {
	var calls atomic.Int32
	call, cancel := Debounce(30*time.Millisecond, func() { calls.Add(1) })
	defer cancel()

	for range 5 {
		call()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load())
}

func TestDebounceCancel(t *testing.T) {
	var calls atomic.Int32
	call, cancel := Debounce(20*time.Millisecond, func() { calls.Add(1) })

	call()
	cancel()
	time.Sleep(60 * time.Millisecond)

	assert.EqualValues(t, 0, calls.Load())
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1718000123456)
	assert.Equal(t, "ORD-00123456", GenerateOrderNumber(now))
}
