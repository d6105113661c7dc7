package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"shopmirror/internal/catalog"
	"shopmirror/internal/config"
	"shopmirror/internal/events"
	"shopmirror/internal/logger"
	"shopmirror/internal/worker/processors"
)

// Worker consumes catalog events for audit processing and drives the
// scheduled catalog re-sync.
type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	processor *processors.EventProcessor
	sync      *catalog.Synchronizer

	stop chan struct{}
}

func New(cfg *config.Config, logger *logger.Logger, sync *catalog.Synchronizer) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "shopmirror-worker",
		Topic:          events.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:    cfg,
		logger:    logger,
		reader:    reader,
		processor: processors.NewEventProcessor(logger),
		sync:      sync,
		stop:      make(chan struct{}),
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for events...")

	go w.resyncLoop()

	for {
		select {
		case <-w.stop:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.processor.Process(event); err != nil {
			w.logger.Error("Failed to process event: %v", err)
		}
	}
}

// resyncLoop re-mirrors the catalog on the configured interval. Each run is
// supervised: a failure is logged and the next tick tries again.
func (w *Worker) resyncLoop() {
	ticker := time.NewTicker(w.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			if _, err := w.sync.SyncAll(ctx); err != nil {
				w.logger.Error("scheduled catalog sync failed: %v", err)
			}
			cancel()
		}
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stop)
	w.reader.Close()
}
