package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV_GetMissing(t *testing.T) {
	kv := NewKV(setupTestDB(t))

	v, ok, err := kv.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestKV_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	kv := NewKV(setupTestDB(t))

	require.NoError(t, kv.Set(ctx, "lunchOptions", "[]"))
	require.NoError(t, kv.Set(ctx, "lunchOptions", `[{"id":"1"}]`))

	v, ok, err := kv.Get(ctx, "lunchOptions")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)
}

func TestKV_UpdateCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	kv := NewKV(setupTestDB(t))

	require.NoError(t, kv.Update(ctx, "k", func(cur string, ok bool) (string, error) {
		assert.False(t, ok)
		return "one", nil
	}))

	boom := errors.New("boom")
	err := kv.Update(ctx, "k", func(cur string, ok bool) (string, error) {
		assert.True(t, ok)
		assert.Equal(t, "one", cur)
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	v, _, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "one", v)
}

func TestKV_KeysSorted(t *testing.T) {
	ctx := context.Background()
	kv := NewKV(setupTestDB(t))

	require.NoError(t, kv.Set(ctx, "b", "2"))
	require.NoError(t, kv.Set(ctx, "a", "1"))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestKV_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := InitDBWithPath(path)
	require.NoError(t, err)
	require.NoError(t, NewKV(db).Set(ctx, "lunchChooserVisited", "true"))
	require.NoError(t, db.Close())

	db, err = InitDBWithPath(path)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := NewKV(db).Get(ctx, "lunchChooserVisited")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestKV_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	ctx := context.Background()
	kv := NewKV(setupTestDB(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = kv.Update(ctx, "counter", func(cur string, _ bool) (string, error) {
				return cur + "x", nil
			})
		}()
	}
	wg.Wait()

	v, _, err := kv.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Len(t, v, 20)
}

func TestKV_SchemaVersion(t *testing.T) {
	kv := NewKV(setupTestDB(t))

	current, latest, err := kv.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), latest)
	assert.Equal(t, latest, current)
}
