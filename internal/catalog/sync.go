package catalog

import (
	"context"
	"fmt"

	"shopmirror/internal/events"
	"shopmirror/internal/logger"
)

// Synchronizer mirrors the full remote catalog into the local store. Safe to
// invoke repeatedly: upserts are idempotent and never touch changed_by or
// changed_at on rows they refresh.
type Synchronizer struct {
	remote    RemoteCatalog
	store     *Store
	publisher *events.Publisher
	logger    *logger.Logger
}

func NewSynchronizer(remote RemoteCatalog, store *Store, publisher *events.Publisher, logger *logger.Logger) *Synchronizer {
	return &Synchronizer{
		remote:    remote,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// SyncAll walks the remote product listing page by page and upserts every
// product. A page fetch failure aborts the run; rows upserted from earlier
// pages are kept. Returns the number of products synced.
func (s *Synchronizer) SyncAll(ctx context.Context) (int, error) {
	synced := 0
	pageInfo := ""

	for {
		products, next, err := s.remote.ListProductsPage(ctx, pageInfo)
		if err != nil {
			return synced, fmt.Errorf("failed to fetch products page: %w", err)
		}

		for i := range products {
			if _, err := s.store.Upsert(&products[i]); err != nil {
				s.logger.Error("sync: failed to upsert product %d: %v", products[i].ID, err)
				continue
			}
			synced++
		}

		if next == "" {
			break
		}
		pageInfo = next
	}

	s.logger.Info("catalog sync completed, %d products", synced)

	s.publisher.Publish(ctx, events.Event{
		Type: events.TypeCatalogSynced,
		Data: map[string]interface{}{"synced_count": synced},
	})

	return synced, nil
}
