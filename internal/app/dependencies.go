package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/config"
	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/ellas-cupcakery/storefront/internal/handlers"
	"github.com/ellas-cupcakery/storefront/internal/repository/postgres"
	"github.com/ellas-cupcakery/storefront/internal/service"
	"github.com/ellas-cupcakery/storefront/internal/utils/jwt"
	"github.com/ellas-cupcakery/storefront/internal/utils/password"
	"github.com/ellas-cupcakery/storefront/internal/worker"
)

// repositories holds the application's repositories
type repositories struct {
	order    domain.OrderRepository
	customer domain.CustomerRepository
	menu     domain.MenuRepository
	feedback domain.FeedbackRepository
	settings domain.SettingsRepository
}

// services holds the application's services
type services struct {
	records *service.RecordService
	vendor  *service.VendorService
}

// handlerSet holds the application's handlers
type handlerSet struct {
	data   *handlers.DataHandler
	vendor *handlers.VendorHandler
	health *handlers.HealthHandler
}

// dependencies holds everything the application wires together
type dependencies struct {
	repos      *repositories
	services   *services
	handlers   *handlerSet
	jwtManager *jwt.Manager
	workerPool *worker.Pool
}

// initDependencies creates the application dependencies
func initDependencies(cfg *config.ServerConfig, dbPool *pgxpool.Pool, logger *zap.Logger) *dependencies {
	repos := &repositories{
		order:    postgres.NewOrderRepository(dbPool),
		customer: postgres.NewCustomerRepository(dbPool),
		menu:     postgres.NewMenuRepository(dbPool),
		feedback: postgres.NewFeedbackRepository(dbPool),
		settings: postgres.NewSettingsRepository(dbPool),
	}

	passwordHasher := password.NewBCryptHasher(password.DefaultCost)
	jwtManager := jwt.NewManager(cfg.SessionSecret, cfg.VendorTokenTTL)

	notifier := service.NewEmailNotifier(service.SMTPConfig{
		Host:     cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPEmail,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPEmail,
	}, logger)

	svcs := &services{
		records: service.NewRecordService(repos.order, repos.customer, repos.menu, repos.feedback, repos.settings, notifier, logger),
		vendor:  service.NewVendorService(cfg.VendorCodeHash, passwordHasher, jwtManager),
	}

	hdlrs := &handlerSet{
		data:   handlers.NewDataHandler(svcs.records, logger),
		vendor: handlers.NewVendorHandler(svcs.vendor, logger),
		health: handlers.NewHealthHandler(dbPool, logger),
	}

	workerPool := worker.NewPool(worker.PoolConfig{
		Workers:       cfg.WorkerPoolSize,
		QueueSize:     cfg.WorkerQueueSize,
		ScanInterval:  cfg.WorkerScanInterval,
		PointsDivisor: cfg.PointsDivisor,
	}, repos.order, repos.customer, logger)

	return &dependencies{
		repos:      repos,
		services:   svcs,
		handlers:   hdlrs,
		jwtManager: jwtManager,
		workerPool: workerPool,
	}
}
