package catalog

import (
	"context"
	"fmt"

	"shopmirror/internal/apierrors"
)

// VariantAvailability is one variant's live stock at the configured location.
type VariantAvailability struct {
	VariantID       int64 `json:"variant_id"`
	InventoryItemID int64 `json:"inventory_item_id"`
	Available       int   `json:"available"`
}

// InventoryResolver produces per-variant stock snapshots for a product.
// Results are computed per request and never cached.
type InventoryResolver struct {
	remote RemoteCatalog
}

func NewInventoryResolver(remote RemoteCatalog) *InventoryResolver {
	return &InventoryResolver{remote: remote}
}

// ResolveAvailability fetches the product, batch-reads inventory levels for
// all its variants and zips the results back in the product's variant order.
// A variant with no entry in the batch result resolves to available 0 rather
// than an error.
func (r *InventoryResolver) ResolveAvailability(ctx context.Context, remoteProductID int64) ([]VariantAvailability, error) {
	if r.remote.LocationID() == 0 {
		return nil, fmt.Errorf("%w: no inventory location configured", apierrors.ErrConfig)
	}

	product, err := r.remote.GetProduct(ctx, remoteProductID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]int64, 0, len(product.Variants))
	for _, v := range product.Variants {
		itemIDs = append(itemIDs, v.InventoryItemID)
	}

	levels, err := r.remote.GetInventoryLevels(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	availability := make([]VariantAvailability, len(product.Variants))
	for i, v := range product.Variants {
		availability[i] = VariantAvailability{
			VariantID:       v.ID,
			InventoryItemID: v.InventoryItemID,
			Available:       levels[v.InventoryItemID],
		}
	}

	return availability, nil
}
