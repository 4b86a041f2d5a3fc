package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/catalog"
	financeapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/finance"
	identityapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/identity"
	ledgerapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	partnerapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/partner"
	tradeapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/trade"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/identity"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/auth"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/cache"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/config"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/event"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/logger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/persistence"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/scheduler"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/interfaces/http/handler"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/interfaces/http/middleware"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stock ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	db.DB.Logger = logger.NewGormLogger(log, gormLogLevel)
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	warungRepo := persistence.NewGormWarungRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	levelRepo := persistence.NewGormStockLevelRepository(db.DB)
	opnameRepo := persistence.NewGormStockOpnameRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	deliveryOrderRepo := persistence.NewGormDeliveryOrderRepository(db.DB)
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Transaction scopes
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)

	// Event pipeline: services write to the outbox, the processor reads
	// it back and delivers to the in-memory bus.
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxEventPublisher := event.NewOutboxEventPublisher(db.DB, eventSerializer)

	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Bus subscribers are wrapped so redelivered outbox entries are
	// acknowledged without being handled twice
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	activityHandler := event.NewActivityLogHandler(log)
	eventBus.Subscribe(event.NewIdempotentHandler(activityHandler, idempotencyStore, log))

	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()

	// Audit trail
	auditSink := persistence.NewGormAuditSink(db.DB, log)

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	warehouseService := partnerapp.NewWarehouseService(warehouseRepo)
	warungService := partnerapp.NewWarungService(warungRepo)

	ledgerService := ledgerapp.NewLedgerService(ledgerScope, movementRepo, levelRepo)
	ledgerService.SetEventPublisher(outboxEventPublisher)
	ledgerService.SetAuditSink(auditSink)

	opnameService := ledgerapp.NewOpnameService(ledgerScope, opnameRepo)
	opnameService.SetEventPublisher(outboxEventPublisher)
	opnameService.SetAuditSink(auditSink)

	purchaseOrderService := tradeapp.NewPurchaseOrderService(tradeScope, purchaseOrderRepo, productRepo, warehouseRepo)
	purchaseOrderService.SetEventPublisher(outboxEventPublisher)

	deliveryOrderService := tradeapp.NewDeliveryOrderService(tradeScope, deliveryOrderRepo, warungRepo, productRepo, warehouseRepo)
	deliveryOrderService.SetEventPublisher(outboxEventPublisher)

	receivableService := financeapp.NewReceivableService(receivableRepo)
	receivableService.SetEventPublisher(outboxEventPublisher)
	receivableService.SetAuditSink(auditSink)

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	userService := identityapp.NewUserService(userRepo)
	userService.SetEventPublisher(outboxEventPublisher)

	tokenBlacklist := newTokenBlacklist(cfg, log)
	authService.SetTokenBlacklist(tokenBlacklist)

	// Overdue receivable sweep
	if cfg.Scheduler.Enabled {
		sweepExecutor := scheduler.NewSweepExecutor(receivableService, outboxRepo, 7*24*time.Hour, log)
		sweepScheduler := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), sweepExecutor, log)
		if err := sweepScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweep scheduler", zap.Error(err))
		}
		defer func() {
			if err := sweepScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping sweep scheduler", zap.Error(err))
			}
		}()

		triggerConfig := scheduler.DefaultSweepTriggerConfig()
		triggerConfig.OverdueSweepInterval = cfg.Scheduler.OverdueSweepInterval
		sweepTrigger := scheduler.NewSweepTrigger(triggerConfig, sweepScheduler, log)
		if err := sweepTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweep trigger", zap.Error(err))
		}
		defer func() {
			if err := sweepTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping sweep trigger", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	warungHandler := handler.NewWarungHandler(warungService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	opnameHandler := handler.NewOpnameHandler(opnameService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	deliveryOrderHandler := handler.NewDeliveryOrderHandler(deliveryOrderService)
	receivableHandler := handler.NewReceivableHandler(receivableService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	systemHandler := handler.NewSystemHandler(func(ctx context.Context) error {
		return db.Ping()
	})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(int64(cfg.HTTP.MaxHeaderBytes)))

	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	registerRoutes(r,
		productHandler, warehouseHandler, warungHandler,
		ledgerHandler, opnameHandler,
		purchaseOrderHandler, deliveryOrderHandler,
		receivableHandler, authHandler, userHandler, systemHandler,
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newTokenBlacklist prefers Redis so revocation survives restarts and is
// shared between instances; it falls back to the in-process blacklist
// when Redis is unreachable.
func newTokenBlacklist(cfg *config.Config, log *zap.Logger) auth.TokenBlacklist {
	blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}
	log.Info("Redis token blacklist connected", zap.String("addr", cfg.Redis.RedisAddr()))
	return blacklist
}

// registerRoutes mounts every domain group with its role guards. Role
// checks always let admin through.
func registerRoutes(
	r *router.Router,
	productHandler *handler.ProductHandler,
	warehouseHandler *handler.WarehouseHandler,
	warungHandler *handler.WarungHandler,
	ledgerHandler *handler.LedgerHandler,
	opnameHandler *handler.OpnameHandler,
	purchaseOrderHandler *handler.PurchaseOrderHandler,
	deliveryOrderHandler *handler.DeliveryOrderHandler,
	receivableHandler *handler.ReceivableHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	systemHandler *handler.SystemHandler,
) {
	adminOnly := middleware.RequireRole(identity.RoleAdmin)
	warehouseStaff := middleware.RequireAnyRole(identity.RoleWarehouse)
	salesStaff := middleware.RequireAnyRole(identity.RoleSales)
	financeStaff := middleware.RequireAnyRole(identity.RoleFinance)

	// Catalog: product master data
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", adminOnly, productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.Get)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.PUT("/products/:id", adminOnly, productHandler.Update)
	catalogRoutes.PUT("/products/:id/prices", adminOnly, productHandler.SetPrices)
	catalogRoutes.PUT("/products/:id/min-stock", adminOnly, productHandler.SetMinStock)
	catalogRoutes.POST("/products/:id/activate", adminOnly, productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", adminOnly, productHandler.Deactivate)
	catalogRoutes.POST("/products/:id/discontinue", adminOnly, productHandler.Discontinue)

	// Partners: warehouses and warungs
	partnerRoutes := router.NewDomainGroup("partner", "/partners")
	partnerRoutes.POST("/warehouses", adminOnly, warehouseHandler.Create)
	partnerRoutes.GET("/warehouses", warehouseHandler.List)
	partnerRoutes.GET("/warehouses/active", warehouseHandler.ListActive)
	partnerRoutes.GET("/warehouses/:id", warehouseHandler.Get)
	partnerRoutes.PUT("/warehouses/:id", adminOnly, warehouseHandler.Update)
	partnerRoutes.POST("/warehouses/:id/activate", adminOnly, warehouseHandler.Activate)
	partnerRoutes.POST("/warehouses/:id/deactivate", adminOnly, warehouseHandler.Deactivate)

	partnerRoutes.POST("/warungs", salesStaff, warungHandler.Create)
	partnerRoutes.GET("/warungs", warungHandler.List)
	partnerRoutes.GET("/warungs/:id", warungHandler.Get)
	partnerRoutes.GET("/warungs/code/:code", warungHandler.GetByCode)
	partnerRoutes.PUT("/warungs/:id", salesStaff, warungHandler.Update)
	partnerRoutes.PUT("/warungs/:id/credit-terms", financeStaff, warungHandler.SetCreditTerms)
	partnerRoutes.POST("/warungs/:id/suspend", financeStaff, warungHandler.Suspend)
	partnerRoutes.POST("/warungs/:id/reinstate", financeStaff, warungHandler.Reinstate)
	partnerRoutes.POST("/warungs/:id/deactivate", adminOnly, warungHandler.Deactivate)

	// Stock ledger: movements, transfers, levels, opnames
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/movements", warehouseStaff, ledgerHandler.RecordMovement)
	stockRoutes.POST("/transfers", warehouseStaff, ledgerHandler.Transfer)
	stockRoutes.GET("/movements", ledgerHandler.History)
	stockRoutes.GET("/movements/source/:type/:id", ledgerHandler.MovementsBySource)
	stockRoutes.GET("/levels/:product_id/:warehouse_id", ledgerHandler.CurrentQuantity)
	stockRoutes.GET("/warehouses/:id/levels", ledgerHandler.LevelsByWarehouse)
	stockRoutes.GET("/warehouses/:id/opnames", opnameHandler.ListByWarehouse)

	stockRoutes.POST("/opnames", warehouseStaff, opnameHandler.Create)
	stockRoutes.GET("/opnames/:id", opnameHandler.Get)
	stockRoutes.POST("/opnames/:id/reconcile", warehouseStaff, opnameHandler.Reconcile)
	stockRoutes.POST("/opnames/:id/cancel", warehouseStaff, opnameHandler.Cancel)

	// Purchase orders
	purchaseRoutes := router.NewDomainGroup("purchase", "/purchase-orders")
	purchaseRoutes.POST("", warehouseStaff, purchaseOrderHandler.Create)
	purchaseRoutes.GET("", purchaseOrderHandler.List)
	purchaseRoutes.GET("/:id", purchaseOrderHandler.Get)
	purchaseRoutes.GET("/number/:order_no", purchaseOrderHandler.GetByOrderNo)
	purchaseRoutes.POST("/:id/items", warehouseStaff, purchaseOrderHandler.AddItem)
	purchaseRoutes.PUT("/:id/items/:product_id", warehouseStaff, purchaseOrderHandler.UpdateItem)
	purchaseRoutes.DELETE("/:id/items/:product_id", warehouseStaff, purchaseOrderHandler.RemoveItem)
	purchaseRoutes.POST("/:id/confirm", warehouseStaff, purchaseOrderHandler.Confirm)
	purchaseRoutes.POST("/:id/cancel", warehouseStaff, purchaseOrderHandler.Cancel)
	purchaseRoutes.POST("/:id/receive", warehouseStaff, purchaseOrderHandler.Receive)

	// Delivery orders
	deliveryRoutes := router.NewDomainGroup("delivery", "/delivery-orders")
	deliveryRoutes.POST("", salesStaff, deliveryOrderHandler.Create)
	deliveryRoutes.GET("", deliveryOrderHandler.List)
	deliveryRoutes.GET("/:id", deliveryOrderHandler.Get)
	deliveryRoutes.GET("/number/:order_no", deliveryOrderHandler.GetByOrderNo)
	deliveryRoutes.POST("/:id/items", salesStaff, deliveryOrderHandler.AddItem)
	deliveryRoutes.PUT("/:id/items/:product_id", salesStaff, deliveryOrderHandler.UpdateItem)
	deliveryRoutes.DELETE("/:id/items/:product_id", salesStaff, deliveryOrderHandler.RemoveItem)
	deliveryRoutes.POST("/:id/confirm", salesStaff, deliveryOrderHandler.Confirm)
	deliveryRoutes.POST("/:id/cancel", salesStaff, deliveryOrderHandler.Cancel)
	deliveryRoutes.POST("/:id/deliver", warehouseStaff, deliveryOrderHandler.Deliver)

	// Receivables and payments
	financeRoutes := router.NewDomainGroup("finance", "/finance")
	financeRoutes.GET("/receivables", financeStaff, receivableHandler.List)
	financeRoutes.GET("/receivables/overdue", financeStaff, receivableHandler.ListOverdue)
	financeRoutes.GET("/receivables/:id", financeStaff, receivableHandler.Get)
	financeRoutes.GET("/delivery-orders/:id/receivable", financeStaff, receivableHandler.GetByDeliveryOrder)
	financeRoutes.GET("/warungs/:id/receivables", financeStaff, receivableHandler.ListByWarung)
	financeRoutes.GET("/warungs/:id/delivery-orders", financeStaff, deliveryOrderHandler.ListByWarung)
	financeRoutes.POST("/receivables/:id/payments", financeStaff, receivableHandler.RecordPayment)
	financeRoutes.POST("/receivables/:id/payments/reverse", financeStaff, receivableHandler.ReversePayment)
	financeRoutes.POST("/receivables/refresh-overdue", financeStaff, receivableHandler.RefreshOverdue)

	// Authentication
	authRoutes := router.NewDomainGroup("auth", "/auth")
	loginLimiter := middleware.RateLimit(middleware.NewRateLimiter(10, time.Minute))
	authRoutes.POST("/login", loginLimiter, authHandler.Login)
	authRoutes.POST("/refresh", loginLimiter, authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User administration
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(adminOnly)
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id/roles", userHandler.SetRoles)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(catalogRoutes).
		Register(partnerRoutes).
		Register(stockRoutes).
		Register(purchaseRoutes).
		Register(deliveryRoutes).
		Register(financeRoutes).
		Register(authRoutes).
		Register(userRoutes).
		Register(systemRoutes)
}
