package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/segmap/internal/census"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "segmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testIndex() census.Index {
	return census.Index{
		"170318390002": census.Record{"10", "0", "9", "1", "0", "0", "0", "0", "0"},
		"170318390003": census.Record{"2", "0", "2", "0", "0", "0", "0", "0", "0"},
	}
}

func TestSQLiteStore_SaveAndLoadIndex(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.SaveIndex(ctx, "il2020.pl", testIndex())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "il2020.pl", run.Source)
	assert.Equal(t, 2, run.Blocks)
	assert.WithinDuration(t, time.Now().UTC(), run.LoadedAt, time.Minute)

	idx, err := s.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, testIndex(), idx)
}

func TestSQLiteStore_SaveIndexReplaces(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := s.SaveIndex(ctx, "first", testIndex())
	require.NoError(t, err)

	second := census.Index{
		"060750101001": census.Record{"50", "0", "10", "5", "0", "35", "0", "0", "0"},
	}
	_, err = s.SaveIndex(ctx, "second", second)
	require.NoError(t, err)

	idx, err := s.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, idx, "a new load fully replaces the previous blocks")
}

func TestSQLiteStore_LoadIndexEmpty(t *testing.T) {
	s := newTestSQLiteStore(t)

	idx, err := s.LoadIndex(context.Background())
	require.NoError(t, err)
	assert.Empty(t, idx)
}

func TestSQLiteStore_ListLoads(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	runs, err := s.ListLoads(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := s.SaveIndex(ctx, "il2010.pl", testIndex())
	require.NoError(t, err)
	second, err := s.SaveIndex(ctx, "il2020.pl", testIndex())
	require.NoError(t, err)

	runs, err = s.ListLoads(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
	for _, r := range runs {
		assert.Equal(t, 2, r.Blocks)
		assert.False(t, r.LoadedAt.IsZero())
	}
}

func TestOpen(t *testing.T) {
	t.Run("sqlite by name", func(t *testing.T) {
		s, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "a.db"))
		require.NoError(t, err)
		require.NoError(t, s.Close())
	})

	t.Run("empty driver defaults to sqlite", func(t *testing.T) {
		s, err := Open(context.Background(), "", filepath.Join(t.TempDir(), "b.db"))
		require.NoError(t, err)
		require.NoError(t, s.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(context.Background(), "oracle", "dsn")
		require.Error(t, err)
	})
}
