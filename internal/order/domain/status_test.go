package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "payment", StatusPayment.String())
	assert.Equal(t, "preparing", StatusPreparing.String())
	assert.Equal(t, "on_the_way", StatusOnTheWay.String())
	assert.Equal(t, "delivered", StatusDelivered.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusPayment.Valid())
	assert.True(t, StatusDelivered.Valid())
	assert.False(t, Status(-1).Valid())
	assert.False(t, Status(4).Valid())
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPayment.Terminal())
	assert.False(t, StatusOnTheWay.Terminal())
	assert.True(t, StatusDelivered.Terminal())
}

func TestStatus_Next_LinearProgression(t *testing.T) {
	next, ok := StatusPayment.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusPreparing, next)

	next, ok = StatusPreparing.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusOnTheWay, next)

	next, ok = StatusOnTheWay.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusDelivered, next)
}

func TestStatus_Next_TerminalStops(t *testing.T) {
	next, ok := StatusDelivered.Next()
	assert.False(t, ok)
	assert.Equal(t, StatusDelivered, next)
}

func TestStatus_Next_NeverSkipsOrDecreases(t *testing.T) {
	s := StatusPayment
	seen := []Status{s}
	for {
		next, ok := s.Next()
		if !ok {
			break
		}
		assert.Equal(t, s+1, next)
		s = next
		seen = append(seen, s)
	}
	assert.Equal(t, []Status{StatusPayment, StatusPreparing, StatusOnTheWay, StatusDelivered}, seen)
}

func TestStatus_Next_InvalidStatus(t *testing.T) {
	_, ok := Status(99).Next()
	assert.False(t, ok)
}

func TestOrder_SumItems(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			{UnitPrice: 1200, Quantity: 3, LineTotal: 3600},
			{UnitPrice: 900, Quantity: 1, LineTotal: 900},
		},
	}
	assert.Equal(t, int64(4500), o.SumItems())
}
