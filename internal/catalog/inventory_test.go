package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmirror/internal/apierrors"
	"shopmirror/internal/services/shopify"
)

func TestResolveAvailabilityZipsInVariantOrder(t *testing.T) {
	remote := &fakeRemote{
		locationID: 55,
		products: map[int64]*shopify.Product{
			1: {ID: 1, Title: "Shirt", Variants: []shopify.Variant{
				{ID: 10, InventoryItemID: 100},
				{ID: 11, InventoryItemID: 101},
				{ID: 12, InventoryItemID: 102},
			}},
		},
		levels: map[int64]int{100: 3, 101: 7, 102: 0},
	}

	resolver := NewInventoryResolver(remote)

	availability, err := resolver.ResolveAvailability(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, availability, 3)

	assert.Equal(t, []VariantAvailability{
		{VariantID: 10, InventoryItemID: 100, Available: 3},
		{VariantID: 11, InventoryItemID: 101, Available: 7},
		{VariantID: 12, InventoryItemID: 102, Available: 0},
	}, availability)
}

func TestResolveAvailabilityMissingItemDefaultsToZero(t *testing.T) {
	remote := &fakeRemote{
		locationID: 55,
		products: map[int64]*shopify.Product{
			1: {ID: 1, Variants: []shopify.Variant{{ID: 10, InventoryItemID: 200}}},
		},
		// Batch read returns no entry for item 200.
		levels: map[int64]int{},
	}

	resolver := NewInventoryResolver(remote)

	availability, err := resolver.ResolveAvailability(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, availability, 1)
	assert.Equal(t, VariantAvailability{VariantID: 10, InventoryItemID: 200, Available: 0}, availability[0])
}

func TestResolveAvailabilityNoLocationShortCircuits(t *testing.T) {
	remote := &fakeRemote{locationID: 0}

	resolver := NewInventoryResolver(remote)

	_, err := resolver.ResolveAvailability(context.Background(), 1)
	require.ErrorIs(t, err, apierrors.ErrConfig)
	assert.Zero(t, remote.getProducts, "no network call may precede the config check")
	assert.Empty(t, remote.levelsCalls)
}
