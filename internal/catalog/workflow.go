package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shopmirror/internal/apierrors"
	"shopmirror/internal/events"
	"shopmirror/internal/logger"
)

// UpdateRequest is the input to the price/stock update workflow. ProductID is
// optional; when 0 it is taken from the remote variant.
type UpdateRequest struct {
	ProductID int64
	VariantID int64
	NewPrice  string
	Actor     string
}

// UpdateResult reports a completed workflow. LocalWarning is non-empty when
// the remote mutations succeeded but the local mirror could not be updated;
// remote and local state have diverged until the next sync.
type UpdateResult struct {
	ProductID     int64  `json:"product_id"`
	VariantID     int64  `json:"variant_id"`
	NewPrice      string `json:"new_price"`
	StockLockedTo int    `json:"stock_locked_to"`
	LocalWarning  string `json:"local_warning,omitempty"`
}

// Updater runs the price/stock update workflow: remote price mutation, then
// an absolute inventory set at the configured location, then local
// persistence. The steps are not transactional; once the price mutation has
// landed upstream nothing is rolled back, and later failures are reported
// with their step label so the caller can tell a retryable failure from one
// that needs manual reconciliation.
//
// Two concurrent updates for the same variant race at the upstream API; the
// last remote write wins and the mirror reflects whichever local persist ran
// last.
type Updater struct {
	remote       RemoteCatalog
	store        *Store
	publisher    *events.Publisher
	lockQuantity int
	logger       *logger.Logger
}

func NewUpdater(remote RemoteCatalog, store *Store, publisher *events.Publisher, lockQuantity int, logger *logger.Logger) *Updater {
	return &Updater{
		remote:       remote,
		store:        store,
		publisher:    publisher,
		lockQuantity: lockQuantity,
		logger:       logger,
	}
}

// UpdatePrice executes the workflow for one variant.
func (u *Updater) UpdatePrice(ctx context.Context, req UpdateRequest) (*UpdateResult, error) {
	// Step 1: validate. Nothing has been mutated yet, so failures here are
	// plain taxonomy errors and the whole operation is safe to retry.
	if req.VariantID == 0 {
		return nil, fmt.Errorf("%w: variantId is required", apierrors.ErrValidation)
	}
	if req.NewPrice == "" {
		return nil, fmt.Errorf("%w: newPrice is required", apierrors.ErrValidation)
	}
	if _, err := strconv.ParseFloat(req.NewPrice, 64); err != nil {
		return nil, fmt.Errorf("%w: newPrice %q is not numeric", apierrors.ErrValidation, req.NewPrice)
	}
	if u.remote.LocationID() == 0 {
		return nil, fmt.Errorf("%w: no inventory location configured", apierrors.ErrConfig)
	}

	// Step 2: remote price mutation. On failure no inventory or local write
	// has been attempted, so the upstream error passes through untouched.
	variant, err := u.remote.UpdateVariantPrice(ctx, req.VariantID, req.NewPrice)
	if err != nil {
		return nil, err
	}

	// Step 3: resolve the variant's inventory item, preferring the mutation
	// response and falling back to an extra variant read. From here on the
	// price change has already landed upstream.
	inventoryItemID := variant.InventoryItemID
	productID := variant.ProductID
	if inventoryItemID == 0 {
		fresh, err := u.remote.GetVariant(ctx, req.VariantID)
		if err != nil {
			return nil, &apierrors.PartialFailureError{Step: apierrors.StepResolveInventoryItem, Err: err}
		}
		inventoryItemID = fresh.InventoryItemID
		productID = fresh.ProductID
	}
	if productID == 0 {
		productID = req.ProductID
	}
	if inventoryItemID == 0 {
		return nil, &apierrors.PartialFailureError{
			Step: apierrors.StepResolveInventoryItem,
			Err:  fmt.Errorf("%w: variant %d has no inventory item", apierrors.ErrNotFound, req.VariantID),
		}
	}

	// Step 4: force available stock to the configured lock quantity.
	if _, err := u.remote.SetInventoryLevel(ctx, inventoryItemID, u.lockQuantity); err != nil {
		return nil, &apierrors.PartialFailureError{Step: apierrors.StepInventorySet, Err: err}
	}

	result := &UpdateResult{
		ProductID:     productID,
		VariantID:     req.VariantID,
		NewPrice:      req.NewPrice,
		StockLockedTo: u.lockQuantity,
	}

	u.publisher.Publish(ctx, events.Event{
		Type:      events.TypePriceUpdated,
		ProductID: productID,
		VariantID: req.VariantID,
		Data: map[string]interface{}{
			"new_price":       req.NewPrice,
			"stock_locked_to": u.lockQuantity,
			"actor":           req.Actor,
		},
	})

	// Step 5: local persistence. The remote mutations have succeeded, so a
	// failure here is reported as a warning on an otherwise successful
	// result rather than an error.
	if err := u.persistLocally(ctx, productID, req); err != nil {
		u.logger.Error("workflow: price updated remotely but local persist failed for variant %d: %v", req.VariantID, err)
		result.LocalWarning = fmt.Sprintf("step %s failed, mirror is stale until next sync: %v", apierrors.StepLocalPersist, err)
	}

	return result, nil
}

func (u *Updater) persistLocally(ctx context.Context, productID int64, req UpdateRequest) error {
	if productID == 0 {
		return fmt.Errorf("%w: owning product unknown", apierrors.ErrNotFound)
	}

	now := time.Now().UTC()
	err := u.store.SetVariantPrice(productID, req.VariantID, req.NewPrice, req.Actor, now)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apierrors.ErrNotFound) {
		return err
	}

	// No mirror row yet: fetch the canonical product and create one first.
	remote, err := u.remote.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if _, err := u.store.Upsert(remote); err != nil {
		return err
	}
	return u.store.SetVariantPrice(productID, req.VariantID, req.NewPrice, req.Actor, now)
}
