package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventorymemory "github.com/Apurer/order-engine/internal/domains/inventory/adapters/memory"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
)

func TestCreateWalkIn_ReturnsExistingPlaceholder(t *testing.T) {
	store := NewStore(inventorymemory.NewStore())
	ctx := context.Background()

	var first, second *domain.Address
	require.NoError(t, store.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		first, err = tx.Addresses().CreateWalkIn(ctx, domain.NewWalkInAddress("walk-in-1", "seller-1"))
		return err
	}))
	require.NoError(t, store.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		second, err = tx.Addresses().CreateWalkIn(ctx, domain.NewWalkInAddress("walk-in-2", "seller-1"))
		return err
	}))

	assert.Equal(t, "walk-in-1", first.ID)
	assert.Equal(t, first.ID, second.ID)
	stored, err := store.AddressesByID(ctx, []string{"walk-in-1", "walk-in-2"})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreateWalkIn_IsScopedPerUser(t *testing.T) {
	store := NewStore(inventorymemory.NewStore())
	ctx := context.Background()

	require.NoError(t, store.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		a, err := tx.Addresses().CreateWalkIn(ctx, domain.NewWalkInAddress("walk-in-a", "seller-a"))
		require.NoError(t, err)
		b, err := tx.Addresses().CreateWalkIn(ctx, domain.NewWalkInAddress("walk-in-b", "seller-b"))
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		return nil
	}))
}

func TestDo_DiscardsWalkInOnFailure(t *testing.T) {
	store := NewStore(inventorymemory.NewStore())
	ctx := context.Background()

	err := store.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		if _, err := tx.Addresses().CreateWalkIn(ctx, domain.NewWalkInAddress("walk-in-1", "seller-1")); err != nil {
			return err
		}
		return ports.ErrAddressNotFound
	})
	require.ErrorIs(t, err, ports.ErrAddressNotFound)

	stored, err := store.AddressesByID(ctx, []string{"walk-in-1"})
	require.NoError(t, err)
	assert.Empty(t, stored)
}
