package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)

	ctx := WithTx(context.Background(), nil)
	_, ok = From(ctx)
	assert.False(t, ok, "nil transactions are not stored")

	ctx = WithTx(context.Background(), &sql.Tx{})
	_, ok = From(ctx)
	assert.True(t, ok)
}

func TestMemoryRunner(t *testing.T) {
	t.Run("success keeps writes", func(t *testing.T) {
		var undone []string
		err := MemoryRunner{}.RunInTx(context.Background(), func(ctx context.Context) error {
			OnRollback(ctx, func() { undone = append(undone, "a") })
			return nil
		})
		assert.NoError(t, err)
		assert.Empty(t, undone)
	})

	t.Run("failure undoes newest first", func(t *testing.T) {
		boom := errors.New("boom")
		var undone []string
		err := MemoryRunner{}.RunInTx(context.Background(), func(ctx context.Context) error {
			OnRollback(ctx, func() { undone = append(undone, "first") })
			OnRollback(ctx, func() { undone = append(undone, "second") })
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"second", "first"}, undone)
	})

	t.Run("nested calls join the outer unit", func(t *testing.T) {
		var undone int
		err := MemoryRunner{}.RunInTx(context.Background(), func(ctx context.Context) error {
			_ = MemoryRunner{}.RunInTx(ctx, func(ctx context.Context) error {
				OnRollback(ctx, func() { undone++ })
				return nil
			})
			return errors.New("outer failed")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, undone)
	})

	t.Run("outside a unit of work nothing is registered", func(t *testing.T) {
		called := false
		OnRollback(context.Background(), func() { called = true })
		assert.False(t, called)
	})
}
