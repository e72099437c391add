package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttach(t *testing.T) {
	ctx := context.Background()

	t.Run("nil transaction leaves context untouched", func(t *testing.T) {
		got := Attach(ctx, nil)
		assert.Equal(t, ctx, got)
		assert.False(t, Active(got))
	})

	t.Run("attached transaction is current", func(t *testing.T) {
		tx := &sql.Tx{}
		txCtx := Attach(ctx, tx)

		got, ok := Current(txCtx)
		assert.True(t, ok)
		assert.Same(t, tx, got)
		assert.True(t, Active(txCtx))
	})
}

func TestExecutorFrom(t *testing.T) {
	db := &sql.DB{}
	assert.Same(t, db, ExecutorFrom(context.Background(), db))

	tx := &sql.Tx{}
	assert.Same(t, tx, ExecutorFrom(Attach(context.Background(), tx), db))
}
