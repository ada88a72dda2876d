package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarriageTypeSeatPrice(t *testing.T) {
	cases := []struct {
		ct    CarriageType
		price uint32
	}{
		{CarriageEconomy, 50},
		{CarriageBusiness, 100},
		{CarriagePremium, 150},
		{CarriageType("FirstClass"), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.price, tc.ct.SeatPrice(), "price for %s", tc.ct)
	}
}

func TestCarriageTypeValid(t *testing.T) {
	assert.True(t, CarriageEconomy.Valid())
	assert.True(t, CarriageBusiness.Valid())
	assert.True(t, CarriagePremium.Valid())
	assert.False(t, CarriageType("economy").Valid(), "type names are case sensitive")
	assert.False(t, CarriageType("").Valid())
}

func TestIsSeatNumberValid(t *testing.T) {
	c := &Carriage{Seats: 20}
	assert.False(t, c.IsSeatNumberValid(0))
	assert.True(t, c.IsSeatNumberValid(1))
	assert.True(t, c.IsSeatNumberValid(20))
	assert.False(t, c.IsSeatNumberValid(21))
}
