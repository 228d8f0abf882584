package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type failingStorage struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStorage) Load(context.Context, string) ([]byte, error) { return nil, f.loadErr }
func (f *failingStorage) Save(context.Context, string, []byte) error {
	f.saves++
	return f.saveErr
}

func nullLogger() (*logrus.Logger, *logtest.Hook) { return logtest.NewNullLogger() }

func TestStorePersistsEveryItemMutation(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	log, _ := nullLogger()

	s := NewStore(ctx, storage, "cart", log)
	s.AddItem(ctx, product("a", "10.00"), 2)
	s.AddItem(ctx, product("b", "5.50"), 1)
	s.UpdateQuantity(ctx, "a", 3)

	raw, err := storage.Load(ctx, "cart")
	require.NoError(t, err)

	var persisted []Item
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 2)
	assert.Equal(t, 3, persisted[0].Quantity)
	assert.Equal(t, "b", persisted[1].Product.ID)

	s.ClearCart(ctx)
	raw, err = storage.Load(ctx, "cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestStoreVisibilityNotPersisted(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{loadErr: ErrNotFound}
	log, _ := nullLogger()

	s := NewStore(ctx, storage, "cart", log)
	s.OpenCart()
	s.ToggleCart()
	s.CloseCart()
	assert.Equal(t, 0, storage.saves)
	assert.False(t, s.IsOpen())
}

func TestStoreRestoresPersistedCart(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	log, _ := nullLogger()

	first := NewStore(ctx, storage, "cart", log)
	first.AddItem(ctx, product("a", "3.25"), 4)
	first.AddItem(ctx, product("b", "1.00"), 1)

	second := NewStore(ctx, storage, "cart", log)
	snap := second.Snapshot()

	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, 5, snap.TotalItems)
	assert.True(t, decimal.RequireFromString("14").Equal(snap.TotalPrice))
	assert.False(t, snap.IsOpen, "visibility starts closed after restore")
}

func TestStoreCorruptedValueFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, "cart", []byte(`{not json`)))
	log, hook := nullLogger()

	s := NewStore(ctx, storage, "cart", log)

	assert.Empty(t, s.Items())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	var serr *StorageError
	require.True(t, errors.As(hook.LastEntry().Data[logrus.ErrorKey].(error), &serr))
	assert.Equal(t, "decode", serr.Op)
}

func TestStoreLoadFailureFallsBackToEmpty(t *testing.T) {
	log, hook := nullLogger()
	s := NewStore(context.Background(), &failingStorage{loadErr: errors.New("redis down")}, "cart", log)

	assert.Empty(t, s.Items())
	assert.Len(t, hook.Entries, 1)
}

func TestStoreSaveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	log, hook := nullLogger()
	storage := &failingStorage{loadErr: ErrNotFound, saveErr: errors.New("read-only")}

	s := NewStore(ctx, storage, "cart", log)
	s.AddItem(ctx, product("a", "1"), 1)

	assert.Equal(t, 1, s.TotalItems())
	assert.Equal(t, 1, storage.saves)
	assert.Len(t, hook.Entries, 1)
}

func TestStoreRoundTripLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		storage := NewMemoryStorage()
		log, _ := nullLogger()

		s := NewStore(ctx, storage, "cart", log)
		n := rapid.IntRange(0, 8).Draw(t, "ops")
		for i := 0; i < n; i++ {
			id := rapid.SampledFrom(ids).Draw(t, "id")
			cents := rapid.IntRange(0, 99999).Draw(t, "cents")
			p := product(id, decimal.New(int64(cents), -2).StringFixed(2))
			p.CreatedAt = time.Date(2026, 1, 19, 10, 30, 0, 0, time.UTC)
			if rapid.Bool().Draw(t, "add") {
				s.AddItem(ctx, p, rapid.IntRange(1, 5).Draw(t, "qty"))
			} else {
				s.UpdateQuantity(ctx, id, rapid.IntRange(-1, 5).Draw(t, "qty"))
			}
		}

		restored := NewStore(ctx, storage, "cart", log)
		want, got := s.Snapshot(), restored.Snapshot()
		if len(want.Items) != len(got.Items) {
			t.Fatalf("restored %d lines, want %d", len(got.Items), len(want.Items))
		}
		for i := range want.Items {
			w, g := want.Items[i], got.Items[i]
			if w.Product.ID != g.Product.ID || w.Quantity != g.Quantity || w.Product.BasePrice != g.Product.BasePrice ||
				!w.Product.CreatedAt.Equal(g.Product.CreatedAt) {
				t.Fatalf("line %d: restored %+v, want %+v", i, g, w)
			}
		}
		if !want.TotalPrice.Equal(got.TotalPrice) {
			t.Fatalf("total %s, want %s", got.TotalPrice, want.TotalPrice)
		}
	})
}

func TestRegistryReturnsSameStorePerSession(t *testing.T) {
	ctx := context.Background()
	log, _ := nullLogger()
	storage := NewMemoryStorage()
	r := NewRegistry(storage, func(id string) string { return "cart:" + id }, time.Minute, log)

	a1 := r.Store(ctx, "s1")
	a2 := r.Store(ctx, "s1")
	b := r.Store(ctx, "s2")

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, r.Len())

	a1.AddItem(ctx, product("a", "1"), 1)
	_, err := storage.Load(ctx, "cart:s1")
	assert.NoError(t, err)
	_, err = storage.Load(ctx, "cart:s2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryRestoresEvictedStore(t *testing.T) {
	ctx := context.Background()
	log, _ := nullLogger()
	storage := NewMemoryStorage()
	r := NewRegistry(storage, func(id string) string { return "cart:" + id }, 10*time.Millisecond, log)

	r.Store(ctx, "s1").AddItem(ctx, product("a", "2"), 3)
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, 3, r.Store(ctx, "s1").TotalItems())
}
