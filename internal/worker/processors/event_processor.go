package processors

import (
	"fmt"

	"shopmirror/internal/events"
	"shopmirror/internal/logger"
)

// EventProcessor turns consumed catalog events into audit log entries. Price
// updates are the interesting ones: they record who moved a price and where
// stock was locked, which is the only trail of locally initiated mutations
// once the mirror row is overwritten by a later sync.
type EventProcessor struct {
	logger *logger.Logger
}

func NewEventProcessor(logger *logger.Logger) *EventProcessor {
	return &EventProcessor{logger: logger}
}

func (ep *EventProcessor) Process(event events.Event) error {
	switch event.Type {
	case events.TypePriceUpdated:
		ep.logger.Info("audit: variant %d of product %d repriced to %v by %v, stock locked to %v",
			event.VariantID, event.ProductID,
			event.Data["new_price"], event.Data["actor"], event.Data["stock_locked_to"])
	case events.TypeCatalogSynced:
		ep.logger.Info("audit: catalog sync mirrored %v products", event.Data["synced_count"])
	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}
	return nil
}
