package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerchantDisplayNames(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetMerchantDisplayName(ctx, "ZOMATO")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{
		OriginalName: " ZOMATO ",
		DisplayName:  "Zomato",
	}))

	name, err := store.GetMerchantDisplayName(ctx, "ZOMATO")
	require.NoError(t, err)
	assert.Equal(t, "Zomato", name)

	// Upsert replaces the mapping and refreshes the cache.
	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{
		OriginalName: "ZOMATO",
		DisplayName:  "Zomato Food",
		UseCount:     3,
	}))
	name, err = store.GetMerchantDisplayName(ctx, "ZOMATO")
	require.NoError(t, err)
	assert.Equal(t, "Zomato Food", name)

	merchants, err := store.ListMerchants(ctx)
	require.NoError(t, err)
	require.Len(t, merchants, 1)
	assert.Equal(t, 3, merchants[0].UseCount)
	assert.False(t, merchants[0].LastUpdated.IsZero())
}

func TestRecordMerchantUse(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.RecordMerchantUse(ctx, "SWIGGY"), common.ErrNotFound)

	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{OriginalName: "SWIGGY", DisplayName: "Swiggy"}))
	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordMerchantUse(ctx, "SWIGGY"))
	}

	merchants, err := store.ListMerchants(ctx)
	require.NoError(t, err)
	require.Len(t, merchants, 1)
	assert.Equal(t, 3, merchants[0].UseCount)
}

func TestDeleteMerchant(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{OriginalName: "OLA", DisplayName: "Ola Cabs"}))
	_, err := store.GetMerchantDisplayName(ctx, "OLA")
	require.NoError(t, err)

	require.NoError(t, store.DeleteMerchant(ctx, "OLA"))

	_, err = store.GetMerchantDisplayName(ctx, "OLA")
	assert.ErrorIs(t, err, common.ErrNotFound, "cached entry must not outlive the row")
	assert.ErrorIs(t, store.DeleteMerchant(ctx, "OLA"), common.ErrNotFound)
}

func TestListMerchants_Ordered(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"UBER", "AMAZON", "NETFLIX"} {
		require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{
			OriginalName: name,
			DisplayName:  name,
			LastUpdated:  time.Now(),
		}))
	}

	merchants, err := store.ListMerchants(ctx)
	require.NoError(t, err)

	names := make([]string, len(merchants))
	for i, m := range merchants {
		names[i] = m.OriginalName
	}
	assert.Equal(t, []string{"AMAZON", "NETFLIX", "UBER"}, names)
}

func TestDisplayNameCacheExpiry(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveMerchant(ctx, &model.Merchant{OriginalName: "IRCTC", DisplayName: "Indian Railways"}))

	_, ok := store.getCachedDisplayName("IRCTC")
	require.True(t, ok)

	store.cacheMutex.Lock()
	store.cacheExpiry = time.Now().Add(-time.Second)
	store.cacheMutex.Unlock()

	_, ok = store.getCachedDisplayName("IRCTC")
	assert.False(t, ok)

	name, err := store.GetMerchantDisplayName(ctx, "IRCTC")
	require.NoError(t, err)
	assert.Equal(t, "Indian Railways", name)
}

func TestSaveMerchant_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveMerchant(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveMerchant(ctx, &model.Merchant{DisplayName: "x"}), ErrInvalidMerchant)
	assert.ErrorIs(t, store.SaveMerchant(ctx, &model.Merchant{OriginalName: "x", DisplayName: " "}), ErrInvalidMerchant)
}
