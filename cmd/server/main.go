package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cashierapp "github.com/asspharma/backend/internal/application/cashier"
	catalogapp "github.com/asspharma/backend/internal/application/catalog"
	creditapp "github.com/asspharma/backend/internal/application/credit"
	deliveryapp "github.com/asspharma/backend/internal/application/delivery"
	identityapp "github.com/asspharma/backend/internal/application/identity"
	insuranceapp "github.com/asspharma/backend/internal/application/insurance"
	inventoryapp "github.com/asspharma/backend/internal/application/inventory"
	partnerapp "github.com/asspharma/backend/internal/application/partner"
	prescriptionapp "github.com/asspharma/backend/internal/application/prescription"
	reportapp "github.com/asspharma/backend/internal/application/report"
	salesapp "github.com/asspharma/backend/internal/application/sales"
	"github.com/asspharma/backend/internal/infrastructure/auth"
	"github.com/asspharma/backend/internal/infrastructure/cache"
	"github.com/asspharma/backend/internal/infrastructure/config"
	"github.com/asspharma/backend/internal/infrastructure/event"
	"github.com/asspharma/backend/internal/infrastructure/logger"
	"github.com/asspharma/backend/internal/infrastructure/persistence"
	"github.com/asspharma/backend/internal/infrastructure/storage"
	"github.com/asspharma/backend/internal/infrastructure/telemetry"
	"github.com/asspharma/backend/internal/interfaces/http/handler"
	"github.com/asspharma/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting asspharma backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("error shutting down tracing", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	if tracerProvider.IsEnabled() {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Fatal("failed to register database tracing", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	lotRepo := persistence.NewGormStockLotRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	accountRepo := persistence.NewGormCreditAccountRepository(db.DB)
	sessionRepo := persistence.NewGormCashSessionRepository(db.DB)
	insurerRepo := persistence.NewGormInsurerRepository(db.DB)
	pharmacyRepo := persistence.NewGormPharmacyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Product cache: Redis when configured, in-process otherwise
	var productCache catalogapp.ProductCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisProductCache(&cfg.Redis,
			cache.WithCacheTTL(cfg.Redis.CacheTTL),
			cache.WithCacheLogger(log),
		)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("error closing redis", zap.Error(err))
			}
		}()
		productCache = redisCache
		log.Info("redis product cache enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memCache := cache.NewInMemoryProductCache(cache.WithInMemoryLogger(log))
		defer memCache.Close()
		productCache = memCache
	}

	// Prescription scan storage: S3-compatible when configured
	var scanStore prescriptionapp.ScanStore
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ScanStore(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("failed to initialize scan storage", zap.Error(err))
		}
		ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Store.EnsureBucket(ensureCtx); err != nil {
			cancel()
			log.Fatal("failed to ensure scan bucket", zap.Error(err), zap.String("bucket", cfg.Storage.Bucket))
		}
		cancel()
		scanStore = s3Store
		log.Info("scan storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		scanStore = storage.NewStubScanStore(log)
		log.Warn("scan storage disabled, using in-memory stub")
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(pharmacyRepo, userRepo, jwtService)
	productService := catalogapp.NewProductService(productRepo, productCache, eventBus)
	inventoryService := inventoryapp.NewInventoryService(persistence.NewGormInventoryTransactionScope(db.DB))
	inventoryService.SetEventPublisher(eventBus)
	alertService := inventoryapp.NewAlertService(lotRepo, productRepo)
	alertService.SetExpiryHorizon(cfg.Alert.ExpiryHorizonDays)
	partnerService := partnerapp.NewPartnerService(customerRepo, supplierRepo, insurerRepo)
	creditService := creditapp.NewCreditService(persistence.NewGormCreditTransactionScope(db.DB))
	creditService.SetEventPublisher(eventBus)
	cashierService := cashierapp.NewCashierService(persistence.NewGormCashierTransactionScope(db.DB))
	cashierService.SetEventPublisher(eventBus)
	checkoutService := salesapp.NewCheckoutService(persistence.NewGormSalesTransactionScope(db.DB))
	checkoutService.SetEventPublisher(eventBus)
	checkoutService.SetCreditDueDays(cfg.Credit.DueDays)
	deliveryService := deliveryapp.NewDeliveryService(persistence.NewGormDeliveryTransactionScope(db.DB))
	deliveryService.SetEventPublisher(eventBus)
	prescriptionService := prescriptionapp.NewPrescriptionService(persistence.NewGormPrescriptionTransactionScope(db.DB), scanStore)
	prescriptionService.SetEventPublisher(eventBus)
	insuranceService := insuranceapp.NewInsuranceService(persistence.NewGormInsuranceTransactionScope(db.DB))
	insuranceService.SetEventPublisher(eventBus)
	reportService := reportapp.NewReportService(sessionRepo, movementRepo, lotRepo, productRepo, accountRepo)
	reportService.SetExpiryHorizon(cfg.Alert.ExpiryHorizonDays)

	// Cross-cutting event handlers
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	eventBus.Subscribe(cache.NewProductCacheInvalidator(productCache, log))

	// HTTP layer
	engine := router.NewEngine(cfg, log, jwtService)
	apiRouter := router.New(engine)
	apiRouter.
		Register(handler.NewSystemHandler(db, log)).
		Register(handler.NewAuthHandler(authService, jwtService, log)).
		Register(handler.NewProductHandler(productService, log)).
		Register(handler.NewInventoryHandler(inventoryService, alertService, log)).
		Register(handler.NewPartnerHandler(partnerService, log)).
		Register(handler.NewCreditHandler(creditService, log)).
		Register(handler.NewCashierHandler(cashierService, log)).
		Register(handler.NewCheckoutHandler(checkoutService, log)).
		Register(handler.NewDeliveryHandler(deliveryService, log)).
		Register(handler.NewPrescriptionHandler(prescriptionService, log)).
		Register(handler.NewInsuranceHandler(insuranceService, log)).
		Register(handler.NewReportHandler(reportService, log))
	apiRouter.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
