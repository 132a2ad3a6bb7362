package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Baricodes/AWS-AI-Assitant/core"
	"github.com/Baricodes/AWS-AI-Assitant/storage"
)

func setupRepository(t *testing.T) storage.IngestionRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func record(sourceKey string, status core.Status) *storage.IngestionRecord {
	return &storage.IngestionRecord{
		DocID:     core.DocIDFromSourceKey(sourceKey),
		SourceKey: sourceKey,
		Status:    status,
	}
}

func TestIngestionRepository_PutGet(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	rec := record("docs/iam.md", core.StatusPending)
	rec.ChunkCount = 4

	stored, err := repo.Put(ctx, rec)
	require.NoError(t, err)
	assert.False(t, stored.CreatedAt.IsZero(), "Put must set CreatedAt")
	assert.False(t, stored.UpdatedAt.IsZero(), "Put must set UpdatedAt")

	got, err := repo.Get(ctx, rec.DocID)
	require.NoError(t, err)
	assert.Equal(t, rec.DocID, got.DocID)
	assert.Equal(t, "docs/iam.md", got.SourceKey)
	assert.Equal(t, core.StatusPending, got.Status)
	assert.Equal(t, 4, got.ChunkCount)
}

func TestIngestionRepository_PutPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	created := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)
	rec := record("docs/iam.md", core.StatusPending)
	rec.CreatedAt = created

	_, err := repo.Put(ctx, rec)
	require.NoError(t, err)

	got, err := repo.Get(ctx, rec.DocID)
	require.NoError(t, err)
	assert.True(t, created.Equal(got.CreatedAt), "existing CreatedAt must survive updates")
	assert.True(t, got.UpdatedAt.After(created))
}

func TestIngestionRepository_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	rec := record("docs/iam.md", core.StatusPending)
	_, err := repo.Put(ctx, rec)
	require.NoError(t, err)

	rec.Status = core.StatusComplete
	rec.ChunkCount = 7
	_, err = repo.Put(ctx, rec)
	require.NoError(t, err)

	got, err := repo.Get(ctx, rec.DocID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusComplete, got.Status)
	assert.Equal(t, 7, got.ChunkCount)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1, "overwriting must not duplicate records")
}

func TestIngestionRepository_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	_, err := repo.Get(ctx, core.DocIDFromSourceKey("never-ingested"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngestionRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	keys := []string{"docs/a.md", "docs/b.md", "docs/c.md"}
	for _, key := range keys {
		_, err := repo.Put(ctx, record(key, core.StatusComplete))
		require.NoError(t, err)
	}

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(keys))

	seen := make(map[string]bool)
	for i, rec := range records {
		seen[rec.SourceKey] = true
		if i > 0 {
			assert.Less(t, records[i-1].DocID, rec.DocID, "List must be ordered by DocID")
		}
	}
	for _, key := range keys {
		assert.True(t, seen[key], "missing record for %s", key)
	}
}

func TestIngestionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	rec := record("docs/iam.md", core.StatusComplete)
	_, err := repo.Put(ctx, rec)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, rec.DocID))

	_, err = repo.Get(ctx, rec.DocID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, rec.DocID), storage.ErrNotFound)
}

func TestIngestionRepository_ClosedBackend(t *testing.T) {
	ctx := context.Background()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, err = repo.Put(ctx, record("docs/iam.md", core.StatusPending))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = repo.Get(ctx, "whatever")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	assert.ErrorIs(t, repo.Delete(ctx, "whatever"), storage.ErrStorageClosed)
}
