package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c), c)
	}

	assert.False(t, ValidCategory("Lozenge"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("tablet"), "categories are case sensitive")
}

func TestInStock(t *testing.T) {
	assert.True(t, (&Medicine{Quantity: 1}).InStock())
	assert.False(t, (&Medicine{Quantity: 0}).InStock())
}

func TestExpiresBy(t *testing.T) {
	cutoff := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	before := &Medicine{ExpiryDate: cutoff.AddDate(0, 0, -1)}
	exact := &Medicine{ExpiryDate: cutoff}
	after := &Medicine{ExpiryDate: cutoff.AddDate(0, 0, 1)}

	assert.True(t, before.ExpiresBy(cutoff))
	assert.True(t, exact.ExpiresBy(cutoff))
	assert.False(t, after.ExpiresBy(cutoff))
}
