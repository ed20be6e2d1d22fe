package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/lariosa/stockroom-be/internal/services"
	"github.com/lariosa/stockroom-be/internal/websocket"
)

// LowStockWatcher periodically scans for products at or below a stock
// threshold and pushes alerts to connected clients.
type LowStockWatcher struct {
	products  services.ProductServiceProvider
	hub       *websocket.Hub
	schedule  cron.Schedule
	threshold int64
	ticker    *time.Ticker
	done      chan bool
	nextRun   time.Time
}

// NewLowStockWatcher creates a watcher from a standard cron expression.
func NewLowStockWatcher(products services.ProductServiceProvider, hub *websocket.Hub, cronExpr string, threshold int64) (*LowStockWatcher, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &LowStockWatcher{
		products:  products,
		hub:       hub,
		schedule:  schedule,
		threshold: threshold,
		done:      make(chan bool),
		nextRun:   schedule.Next(time.Now()),
	}, nil
}

// Run starts the watcher's ticking loop.
func (w *LowStockWatcher) Run() {
	log.Info().Int64("threshold", w.threshold).Msg("Starting low-stock watcher...")
	w.ticker = time.NewTicker(30 * time.Second)
	defer w.ticker.Stop()

	// Run once immediately on start
	w.scan()

	for {
		select {
		case <-w.done:
			log.Info().Msg("Stopping low-stock watcher.")
			return
		case <-w.ticker.C:
			now := time.Now()
			if now.After(w.nextRun) {
				w.scan()
				w.nextRun = w.schedule.Next(now)
			}
		}
	}
}

// Stop halts the watcher.
func (w *LowStockWatcher) Stop() {
	w.done <- true
}

// scan queries for low-stock products and emits one alert per product.
func (w *LowStockWatcher) scan() {
	products, err := w.products.LowStock(w.threshold)
	if err != nil {
		log.Error().Err(err).Msg("Low-stock scan failed")
		return
	}

	for _, p := range products {
		log.Warn().Int64("product_id", p.ID).Str("name", p.Name).Int64("stock", p.Stock).Msg("Product stock at or below threshold")
		if w.hub != nil {
			w.hub.NotifyLowStock(p)
		}
	}
}
