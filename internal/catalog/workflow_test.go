package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmirror/internal/apierrors"
	"shopmirror/internal/services/shopify"
)

func newUpdater(remote *fakeRemote, store *Store) *Updater {
	return NewUpdater(remote, store, nil, 1, testLogger())
}

func TestUpdatePriceHappyPath(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{
		locationID: 55,
		variants: map[int64]*shopify.Variant{
			10: {ID: 10, ProductID: 1, Price: "10.00", InventoryItemID: 100},
		},
		products: map[int64]*shopify.Product{
			1: {ID: 1, Title: "Shirt", Variants: []shopify.Variant{{ID: 10, Price: "10.00", InventoryItemID: 100}}},
		},
	}

	_, err := store.Upsert(remote.products[1])
	require.NoError(t, err)

	start := time.Now().UTC()
	result, err := newUpdater(remote, store).UpdatePrice(context.Background(), UpdateRequest{
		VariantID: 10,
		NewPrice:  "12.50",
		Actor:     "user-7",
	})
	require.NoError(t, err)

	assert.Equal(t, "12.50", result.NewPrice)
	assert.Equal(t, 1, result.StockLockedTo)
	assert.Empty(t, result.LocalWarning)

	// Remote side effects: one price mutation, one absolute inventory set.
	require.Len(t, remote.priceCalls, 1)
	assert.Equal(t, priceCall{variantID: 10, price: "12.50"}, remote.priceCalls[0])
	require.Len(t, remote.setCalls, 1)
	assert.Equal(t, setCall{inventoryItemID: 100, available: 1}, remote.setCalls[0])

	// Local mirror reflects the change with actor and timestamp.
	record, err := store.GetByShopifyID(1)
	require.NoError(t, err)
	assert.Equal(t, "12.50", record.Variants[0].Price)
	require.NotNil(t, record.ChangedBy)
	assert.Equal(t, "user-7", *record.ChangedBy)
	require.NotNil(t, record.ChangedAt)
	assert.False(t, record.ChangedAt.Before(start.Truncate(time.Second)))
}

func TestUpdatePriceValidation(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{locationID: 55}
	updater := newUpdater(remote, store)

	cases := []struct {
		name    string
		req     UpdateRequest
		wantErr error
	}{
		{"missing variant", UpdateRequest{NewPrice: "10.00"}, apierrors.ErrValidation},
		{"missing price", UpdateRequest{VariantID: 10}, apierrors.ErrValidation},
		{"non-numeric price", UpdateRequest{VariantID: 10, NewPrice: "ten"}, apierrors.ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := updater.UpdatePrice(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, remote.priceCalls, "validation failures must not reach the remote API")
		})
	}
}

func TestUpdatePriceNoLocationConfigured(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{locationID: 0}

	_, err := newUpdater(remote, store).UpdatePrice(context.Background(), UpdateRequest{
		VariantID: 10,
		NewPrice:  "12.50",
	})
	require.ErrorIs(t, err, apierrors.ErrConfig)
	assert.Empty(t, remote.priceCalls)
}

func TestUpdatePriceRemoteFailureHasNoSideEffects(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{
		locationID: 55,
		priceErr:   apierrors.ErrUpstreamUnavailable,
	}

	_, err := newUpdater(remote, store).UpdatePrice(context.Background(), UpdateRequest{
		VariantID: 10,
		NewPrice:  "12.50",
		Actor:     "user-7",
	})
	require.ErrorIs(t, err, apierrors.ErrUpstreamUnavailable)

	var partial *apierrors.PartialFailureError
	assert.False(t, errors.As(err, &partial), "a step-2 failure is not a partial failure")

	assert.Empty(t, remote.setCalls, "no inventory mutation after a failed price update")
	_, _, listErr := store.List(ListOptions{UpdatedOnly: true})
	require.NoError(t, listErr)
	_, total, _ := store.List(ListOptions{})
	assert.Zero(t, total, "no local record may be written")
}

func TestUpdatePriceInventorySetFailureIsPartial(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{
		locationID: 55,
		variants: map[int64]*shopify.Variant{
			10: {ID: 10, ProductID: 1, InventoryItemID: 100},
		},
		setErr: apierrors.ErrUpstreamUnavailable,
	}

	_, err := newUpdater(remote, store).UpdatePrice(context.Background(), UpdateRequest{
		VariantID: 10,
		NewPrice:  "12.50",
	})
	require.Error(t, err)

	var partial *apierrors.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, apierrors.StepInventorySet, partial.Step)
	assert.ErrorIs(t, err, apierrors.ErrUpstreamUnavailable)
}

func TestUpdatePriceResolvesInventoryItemByRereading(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{
		locationID: 55,
		variants: map[int64]*shopify.Variant{
			10: {ID: 10, ProductID: 1, InventoryItemID: 100},
		},
		products: map[int64]*shopify.Product{
			1: {ID: 1, Title: "Shirt", Variants: []shopify.Variant{{ID: 10, InventoryItemID: 100}}},
		},
	}
	// The price mutation response omits the inventory item link.
	remote.variants[10].InventoryItemID = 0

	updater := newUpdater(remote, store)

	// First attempt: the re-read also has no link, so the workflow reports a
	// partial failure at the resolve step.
	_, err := updater.UpdatePrice(context.Background(), UpdateRequest{VariantID: 10, NewPrice: "12.50"})
	var partial *apierrors.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, apierrors.StepResolveInventoryItem, partial.Step)
	assert.Equal(t, 1, remote.getVariants, "missing link triggers exactly one extra variant read")

	// With the link present on the re-read the workflow completes.
	remote.variants[10].InventoryItemID = 100
	result, err := updater.UpdatePrice(context.Background(), UpdateRequest{VariantID: 10, NewPrice: "12.50"})
	require.NoError(t, err)
	assert.Empty(t, result.LocalWarning)
	require.NotEmpty(t, remote.setCalls)
	assert.Equal(t, int64(100), remote.setCalls[len(remote.setCalls)-1].inventoryItemID)
}

func TestUpdatePriceLocalPersistFailureIsWarningNotError(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{
		locationID: 55,
		variants: map[int64]*shopify.Variant{
			10: {ID: 10, ProductID: 1, InventoryItemID: 100},
		},
		// No mirror row exists and the canonical fetch fails, so step 5
		// cannot complete.
		productErr: apierrors.ErrUpstreamUnavailable,
	}

	result, err := newUpdater(remote, store).UpdatePrice(context.Background(), UpdateRequest{
		VariantID: 10,
		NewPrice:  "12.50",
		Actor:     "user-7",
	})
	require.NoError(t, err, "remote success with a stale mirror is not an error")
	assert.NotEmpty(t, result.LocalWarning)
	assert.Contains(t, result.LocalWarning, apierrors.StepLocalPersist)
}

func TestUpdatePriceCreatesMissingMirrorRow(t *testing.T) {
	store := newTestStore(t)
	remote := &fakeRemote{
		locationID: 55,
		variants: map[int64]*shopify.Variant{
			10: {ID: 10, ProductID: 1, Price: "10.00", InventoryItemID: 100},
		},
		products: map[int64]*shopify.Product{
			1: {ID: 1, Title: "Shirt", Variants: []shopify.Variant{{ID: 10, Price: "10.00", InventoryItemID: 100}}},
		},
	}

	result, err := newUpdater(remote, store).UpdatePrice(context.Background(), UpdateRequest{
		VariantID: 10,
		NewPrice:  "12.50",
		Actor:     "user-7",
	})
	require.NoError(t, err)
	assert.Empty(t, result.LocalWarning)

	record, err := store.GetByShopifyID(1)
	require.NoError(t, err)
	assert.Equal(t, "12.50", record.Variants[0].Price)
	require.NotNil(t, record.ChangedBy)
	assert.Equal(t, "user-7", *record.ChangedBy)
}
