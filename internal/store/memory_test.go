package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmarcus/sweeper/internal/game"
	"github.com/ajmarcus/sweeper/internal/store"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.New(game.Config{Size: 9, MineQuota: 1})
	require.NoError(t, err)
	return g
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	g := newGame(t)

	_, err := st.Get(ctx, g.ID())
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Save(ctx, g))
	got, err := st.Get(ctx, g.ID())
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 1, st.Len())

	require.NoError(t, st.Delete(ctx, g.ID()))
	_, err = st.Get(ctx, g.ID())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, st.Delete(ctx, g.ID()))
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := game.New(game.Config{Size: 9, MineQuota: 1})
			if err != nil {
				return
			}
			_ = st.Save(ctx, g)
			_, _ = st.Get(ctx, g.ID())
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, st.Len())
}
