package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/chaos-orders/internal/coordinator/steplog"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()

	repo, err := Open(filepath.Join(t.TempDir(), "steps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_SaveAndList(t *testing.T) {
	t.Parallel()

	repo := openTemp(t)
	ctx := context.Background()

	entries := []*steplog.Entry{
		steplog.NewEntry(ctx, "o-1", "CREATED", "", `{"total":10}`, nil),
		steplog.NewEntry(ctx, "o-1", "CHECKING_INVENTORY", "check-inventory", "", nil),
		steplog.NewEntry(ctx, "o-1", "INVENTORY_FAILED", "check-inventory", "", []string{"Inventory check failed"}),
		steplog.NewEntry(ctx, "o-2", "CREATED", "", `{}`, nil),
	}
	for _, e := range entries {
		require.NoError(t, repo.Save(ctx, e))
	}

	got, err := repo.List(ctx, "o-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "CREATED", got[0].State)
	assert.Equal(t, `{"total":10}`, got[0].Payload)
	assert.Empty(t, got[1].Payload)
	assert.Equal(t, `["Inventory check failed"]`, got[2].ErrorMessages)
	assert.WithinDuration(t, entries[2].UpdatedAt, got[2].UpdatedAt, time.Microsecond)
	assert.Equal(t, "check-inventory", got[2].Step)
}

func TestRepository_ListUnknownOrder(t *testing.T) {
	t.Parallel()

	got, err := openTemp(t).List(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_ReopenKeepsSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "steps.db")
	repo, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), steplog.NewEntry(context.Background(), "o-1", "COMPLETED", "process-payment", "", nil)))
	require.NoError(t, repo.Close())

	repo, err = Open(path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.List(context.Background(), "o-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "COMPLETED", got[0].State)
}
