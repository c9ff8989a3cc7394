package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SetsExpectedVersion(t *testing.T) {
	store := createTestStorage(t)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
	assert.Equal(t, len(migrations), version)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testEntry("a", "2026-02-10")))
	require.NoError(t, store.Migrate(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrate_FromPartialSchema(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.applyMigration(ctx, 1, migrations[0]))
	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, "PRAGMA user_version = 99")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Migrate(ctx), ErrSchemaTooNew)
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	store := createTestStorage(t)

	for _, name := range []string{"idx_lancamentos_data_vencimento", "idx_lancamentos_mes_ref"} {
		var indexCount int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='index' AND name=?
		`, name).Scan(&indexCount)
		require.NoError(t, err)
		assert.Equal(t, 1, indexCount, name)
	}
}
