package persist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"restaurant-pos/pos-cli/internal/domain"
	"restaurant-pos/pos-cli/internal/persist"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type persister interface {
	Load(ctx context.Context) (persist.State, error)
	Save(ctx context.Context, state persist.State) error
}

func sampleState() persist.State {
	synced := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return persist.State{
		Dishes:      []domain.Dish{{ID: "d1", Name: "Soup", Price: 6.5, Category: "Starters", IsActive: true, Version: 2}},
		Ingredients: []domain.Ingredient{{ID: "i1", Name: "Leek", Unit: "kg", QuantityToday: 3}},
		Orders:      []domain.Order{{ID: "o1", Total: 7.02, Status: domain.OrderCompleted}},
		LastSync:    &synced,
	}
}

func TestPersisters_RoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) persister{
		"file": func(t *testing.T) persister {
			return persist.NewFilePersister(filepath.Join(t.TempDir(), "nested"))
		},
		"redis": func(t *testing.T) persister {
			mr := miniredis.RunT(t)
			return persist.NewRedisPersister(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
		},
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			p := build(t)
			ctx := context.Background()

			empty, err := p.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty.Dishes)
			assert.Nil(t, empty.LastSync)

			want := sampleState()
			require.NoError(t, p.Save(ctx, want))

			got, err := p.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want.Dishes[0].ID, got.Dishes[0].ID)
			assert.Equal(t, want.Orders, got.Orders)
			require.NotNil(t, got.LastSync)
			assert.True(t, want.LastSync.Equal(*got.LastSync))
		})
	}
}

func TestFilePersister_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	p := persist.NewFilePersister(dir)

	require.NoError(t, p.Save(context.Background(), sampleState()))
	require.NoError(t, p.Save(context.Background(), persist.State{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "restaurant-pos-store.json", entries[0].Name())
}

func TestFilePersister_CorruptMirror(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restaurant-pos-store.json"), []byte("{"), 0o644))

	_, err := persist.NewFilePersister(dir).Load(context.Background())
	assert.Error(t, err)
}

func TestRedisPersister_UsesFixedKeyWithoutExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	p := persist.NewRedisPersister(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	require.NoError(t, p.Save(context.Background(), sampleState()))
	assert.True(t, mr.Exists(persist.StoreKey))
	assert.Zero(t, mr.TTL(persist.StoreKey))
}

func TestPersisters_IgnoreUnknownSnapshotVersion(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(persist.StoreKey, `{"state":{"dishes":[{"id":"old"}]},"version":0}`))
	p := persist.NewRedisPersister(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	state, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Dishes)
}
