package worker

import (
	"context"

	"commerce-service/internal/broker"
	"commerce-service/internal/service"
	"commerce-service/internal/util"
)

// StockWorker consumes stock restoration requests emitted on cancellation
// and applies them through the stock service.
type StockWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewStockWorker creates a new stock worker
func NewStockWorker(consumer *broker.Consumer, stockService *service.StockService) *StockWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnStockRestore(stockService.HandleStockRestore)

	return &StockWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *StockWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting stock worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockWorker) Stop() error {
	util.GetLogger().Info("Stopping stock worker")
	return w.consumer.Close()
}
