package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
)

func TestNewClient(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	birth := time.Date(1990, 7, 15, 0, 0, 0, 0, time.UTC)
	managerID := domain.NewManagerID()

	t.Run("derives segment from income", func(t *testing.T) {
		c, err := NewClient("Joao", "111", decimal.NewFromInt(5000), "SP", birth, managerID, "Ana", now)
		require.NoError(t, err)
		assert.Equal(t, domain.SegmentRetail, c.Segment)
		assert.Equal(t, now, c.RegisteredAt)
		assert.Equal(t, "Ana", c.ManagerName)
		assert.True(t, c.ID.IsNil(), "ids are assigned by the registry")
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := NewClient("", "111", decimal.Zero, "SP", birth, managerID, "Ana", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = NewClient("Joao", " ", decimal.Zero, "SP", birth, managerID, "Ana", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = NewClient("Joao", "111", decimal.Zero, "SP", birth, domain.ManagerID{}, "Ana", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}
