package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlaylab/rater-api/internal/platform/sqlite"
	"github.com/overlaylab/rater-api/internal/store"
	"github.com/overlaylab/rater-api/internal/testdb"
)

func TestRaterStore(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewMemoryDB(t)
	f := newFixture(t, db)
	f.addRater(1, "rater@example.com", "$2a$10$hash")

	raterStore := sqlite.NewRaterStore(db, nil)

	t.Run("get by email", func(t *testing.T) {
		rater, err := raterStore.GetByEmail(ctx, "rater@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rater.ID)
		assert.Equal(t, "$2a$10$hash", rater.HashedPassword)
		assert.True(t, rater.ShowHelp)
	})

	t.Run("get by id", func(t *testing.T) {
		rater, err := raterStore.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "rater@example.com", rater.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := raterStore.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrRaterNotFound)
	})

	t.Run("clear show help", func(t *testing.T) {
		require.NoError(t, raterStore.ClearShowHelp(ctx, 1))

		rater, err := raterStore.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.False(t, rater.ShowHelp)
	})

	t.Run("clear show help for unknown rater", func(t *testing.T) {
		err := raterStore.ClearShowHelp(ctx, 42)
		assert.ErrorIs(t, err, store.ErrUpdateFailed)
	})
}
