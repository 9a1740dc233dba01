package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

// DefaultPointsDivisor converts an order total into loyalty points: one
// point per full hundred spent.
const DefaultPointsDivisor = 100

// PoolConfig holds the worker pool settings
type PoolConfig struct {
	Workers       int
	QueueSize     int
	ScanInterval  time.Duration
	PointsDivisor float64
}

// Pool awards loyalty points for paid orders. A scanner periodically picks
// up paid orders that have not been awarded yet and feeds them to workers.
type Pool struct {
	workers      int
	queue        chan string
	stopScan     chan struct{}
	orderRepo    domain.OrderRepository
	customerRepo domain.CustomerRepository
	logger       *zap.Logger
	wg           sync.WaitGroup
	scanWG       sync.WaitGroup
	scanInterval time.Duration
	divisor      float64

	mu       sync.Mutex
	inflight map[string]bool
}

// NewPool creates a new worker pool
func NewPool(
	cfg PoolConfig,
	orderRepo domain.OrderRepository,
	customerRepo domain.CustomerRepository,
	logger *zap.Logger,
) *Pool {
	if cfg.PointsDivisor <= 0 {
		cfg.PointsDivisor = DefaultPointsDivisor
	}
	return &Pool{
		workers:      cfg.Workers,
		queue:        make(chan string, cfg.QueueSize),
		stopScan:     make(chan struct{}),
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		logger:       logger,
		scanInterval: cfg.ScanInterval,
		divisor:      cfg.PointsDivisor,
		inflight:     make(map[string]bool),
	}
}

// Start launches the workers and the scanner
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.scanWG.Add(1)
	go p.scanner(ctx)
}

// Stop stops the worker pool. The scanner is stopped and waited for first
// so it cannot enqueue into the closed queue.
func (p *Pool) Stop() {
	close(p.stopScan)
	p.scanWG.Wait()

	close(p.queue)
	p.wg.Wait()
}

// worker awards points for orders from the queue
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info("loyalty worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("loyalty worker stopping", zap.Int("worker_id", id))
			return
		case orderID, ok := <-p.queue:
			if !ok {
				return
			}
			p.awardOrder(ctx, orderID)
			p.release(orderID)
		}
	}
}

// scanner periodically looks for paid orders awaiting their points
func (p *Pool) scanner(ctx context.Context) {
	defer p.scanWG.Done()

	ticker := time.NewTicker(p.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("loyalty scanner stopping")
			return
		case <-p.stopScan:
			p.logger.Info("loyalty scanner stopping")
			return
		case <-ticker.C:
			p.scanUnawardedOrders(ctx)
		}
	}
}

// scanUnawardedOrders enqueues paid orders that still need points
func (p *Pool) scanUnawardedOrders(ctx context.Context) {
	orders, err := p.orderRepo.GetUnawardedPaidOrders(ctx)
	if err != nil {
		p.logger.Error("failed to get unawarded orders", zap.Error(err))
		return
	}

	for _, order := range orders {
		if !p.claim(order.ID) {
			continue
		}
		select {
		case p.queue <- order.ID:
		case <-ctx.Done():
			p.release(order.ID)
			return
		default:
			p.release(order.ID)
			p.logger.Warn("queue is full, skipping order", zap.String("order_id", order.ID))
		}
	}
}

// claim marks an order as queued so a later scan does not enqueue it again
func (p *Pool) claim(orderID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight[orderID] {
		return false
	}
	p.inflight[orderID] = true
	return true
}

func (p *Pool) release(orderID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, orderID)
}

// awardOrder credits loyalty points for a single paid order
func (p *Pool) awardOrder(ctx context.Context, orderID string) {
	p.logger.Debug("awarding points", zap.String("order_id", orderID))

	order, err := p.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		p.logger.Error("failed to get order",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	// The order may have been awarded between scan and pickup
	if order.PointsAwarded || order.PaymentStatus != domain.PaymentPaid {
		return
	}

	points := int(order.Total / p.divisor)

	if points > 0 && order.CustomerID != "" {
		if err := p.customerRepo.AddLoyaltyPoints(ctx, order.CustomerID, points); err != nil {
			p.logger.Error("failed to add loyalty points",
				zap.String("order_id", orderID),
				zap.String("customer_id", order.CustomerID),
				zap.Error(err),
			)
			return
		}
	}

	if err := p.orderRepo.UpdateOrderFields(ctx, orderID, map[string]any{"points_awarded": true}); err != nil {
		p.logger.Error("failed to mark order as awarded",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	p.logger.Info("loyalty points awarded",
		zap.String("order_id", orderID),
		zap.String("customer_id", order.CustomerID),
		zap.Int("points", points),
	)
}
