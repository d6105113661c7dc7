package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"shopmirror/internal/database"
	"shopmirror/internal/logger"
	"shopmirror/internal/services/shopify"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.New(fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db.DB)
}

func testLogger() *logger.Logger {
	return logger.New("test", "error")
}

func strPtr(s string) *string { return &s }

// fakeRemote implements RemoteCatalog with overridable behavior per method.
type fakeRemote struct {
	locationID int64

	listPages  map[string]listPage
	products   map[int64]*shopify.Product
	variants   map[int64]*shopify.Variant
	levels     map[int64]int
	listErr    map[string]error
	productErr error
	variantErr error
	priceErr   error
	setErr     error
	levelsErr  error

	priceCalls  []priceCall
	setCalls    []setCall
	levelsCalls [][]int64
	getProducts int
	getVariants int
}

type listPage struct {
	products []shopify.Product
	next     string
}

type priceCall struct {
	variantID int64
	price     string
}

type setCall struct {
	inventoryItemID int64
	available       int
}

func (f *fakeRemote) ListProductsPage(ctx context.Context, pageInfo string) ([]shopify.Product, string, error) {
	if err := f.listErr[pageInfo]; err != nil {
		return nil, "", err
	}
	page := f.listPages[pageInfo]
	return page.products, page.next, nil
}

func (f *fakeRemote) GetProduct(ctx context.Context, productID int64) (*shopify.Product, error) {
	f.getProducts++
	if f.productErr != nil {
		return nil, f.productErr
	}
	if p, ok := f.products[productID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no such product %d", productID)
}

func (f *fakeRemote) GetVariant(ctx context.Context, variantID int64) (*shopify.Variant, error) {
	f.getVariants++
	if f.variantErr != nil {
		return nil, f.variantErr
	}
	if v, ok := f.variants[variantID]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no such variant %d", variantID)
}

func (f *fakeRemote) UpdateVariantPrice(ctx context.Context, variantID int64, newPrice string) (*shopify.Variant, error) {
	f.priceCalls = append(f.priceCalls, priceCall{variantID: variantID, price: newPrice})
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	if v, ok := f.variants[variantID]; ok {
		updated := *v
		updated.Price = newPrice
		return &updated, nil
	}
	return &shopify.Variant{ID: variantID, Price: newPrice}, nil
}

func (f *fakeRemote) SetInventoryLevel(ctx context.Context, inventoryItemID int64, available int) (*shopify.InventoryLevel, error) {
	f.setCalls = append(f.setCalls, setCall{inventoryItemID: inventoryItemID, available: available})
	if f.setErr != nil {
		return nil, f.setErr
	}
	return &shopify.InventoryLevel{
		InventoryItemID: inventoryItemID,
		LocationID:      f.locationID,
		Available:       available,
	}, nil
}

func (f *fakeRemote) GetInventoryLevels(ctx context.Context, inventoryItemIDs []int64) (map[int64]int, error) {
	f.levelsCalls = append(f.levelsCalls, inventoryItemIDs)
	if f.levelsErr != nil {
		return nil, f.levelsErr
	}
	out := make(map[int64]int)
	for _, id := range inventoryItemIDs {
		if available, ok := f.levels[id]; ok {
			out[id] = available
		}
	}
	return out, nil
}

func (f *fakeRemote) DeleteProduct(ctx context.Context, productID int64) error { return nil }

func (f *fakeRemote) DeleteVariant(ctx context.Context, variantID int64) error { return nil }

func (f *fakeRemote) LocationID() int64 { return f.locationID }
