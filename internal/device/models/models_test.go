package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func condPtr(c Condition) *Condition { return &c }

func TestConditionBreakdown_FoldsAndClamps(t *testing.T) {
	movements := []StockMovement{
		{Type: MovementAdd, Quantity: 5, Condition: condPtr(ConditionNew)},
		{Type: MovementRemove, Quantity: 2, Condition: condPtr(ConditionNew)},
		{Type: MovementAdd, Quantity: 3, Condition: condPtr(ConditionGood)},
	}

	b := ConditionBreakdown(movements)

	assert.Equal(t, int64(3), b[ConditionNew])
	assert.Equal(t, int64(3), b[ConditionGood])
	assert.Equal(t, int64(0), b[ConditionDamaged])
	assert.Equal(t, int64(0), b[ConditionBroken])
}

func TestConditionBreakdown_RemoveNeverGoesNegative(t *testing.T) {
	movements := []StockMovement{
		{Type: MovementAdd, Quantity: 1, Condition: condPtr(ConditionDamaged)},
		{Type: MovementRemove, Quantity: 5, Condition: condPtr(ConditionDamaged)},
		{Type: MovementAdd, Quantity: 2, Condition: condPtr(ConditionDamaged)},
	}

	b := ConditionBreakdown(movements)
	assert.Equal(t, int64(2), b[ConditionDamaged])
}

func TestConditionBreakdown_NilConditionCountsAsGood(t *testing.T) {
	movements := []StockMovement{
		{Type: MovementAdd, Quantity: 4},
		{Type: MovementRemove, Quantity: 1},
	}

	b := ConditionBreakdown(movements)
	assert.Equal(t, int64(3), b[ConditionGood])
}

func TestConditionValid(t *testing.T) {
	assert.True(t, ConditionNew.Valid())
	assert.True(t, ConditionBroken.Valid())
	assert.False(t, Condition("mint").Valid())
}
