package catalog

import (
	"context"

	"shopmirror/internal/services/shopify"
)

// RemoteCatalog is the slice of the Shopify admin API the catalog components
// depend on. *shopify.Client is the production implementation; tests supply
// fakes.
type RemoteCatalog interface {
	ListProductsPage(ctx context.Context, pageInfo string) ([]shopify.Product, string, error)
	GetProduct(ctx context.Context, productID int64) (*shopify.Product, error)
	GetVariant(ctx context.Context, variantID int64) (*shopify.Variant, error)
	UpdateVariantPrice(ctx context.Context, variantID int64, newPrice string) (*shopify.Variant, error)
	SetInventoryLevel(ctx context.Context, inventoryItemID int64, available int) (*shopify.InventoryLevel, error)
	GetInventoryLevels(ctx context.Context, inventoryItemIDs []int64) (map[int64]int, error)
	DeleteProduct(ctx context.Context, productID int64) error
	DeleteVariant(ctx context.Context, variantID int64) error
	LocationID() int64
}

var _ RemoteCatalog = (*shopify.Client)(nil)
