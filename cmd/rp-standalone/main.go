package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
	"github.com/tuanvumaihuynh/retail-pos/internal/event"
	"github.com/tuanvumaihuynh/retail-pos/internal/http"
	"github.com/tuanvumaihuynh/retail-pos/internal/log"
	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
	"github.com/tuanvumaihuynh/retail-pos/internal/relay"
	"github.com/tuanvumaihuynh/retail-pos/internal/repository"
	"github.com/tuanvumaihuynh/retail-pos/internal/service"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/blob"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/db"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/kv"
	"github.com/tuanvumaihuynh/retail-pos/internal/storage/mq"
	"github.com/tuanvumaihuynh/retail-pos/internal/telemetry"
	"github.com/tuanvumaihuynh/retail-pos/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
		Redis    config.Redis
		Blob     config.Blob
		Auth     config.Auth
		POS      config.POS
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	rateStore, closeRateStore, err := newRateStore(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeRateStore()

	blobStore, err := blob.NewStore(cfg.Blob)
	if err != nil {
		return fmt.Errorf("error creating blob store: %w", err)
	}

	productRepository := repository.NewProductRepository(dbClient)
	storeRepository := repository.NewStoreRepository(dbClient)
	employeeRepository := repository.NewEmployeeRepository(dbClient)
	supplierRepository := repository.NewSupplierRepository(dbClient)
	saleRepository := repository.NewSaleRepository(dbClient)
	transferRepository := repository.NewTransferRepository(dbClient)
	purchaseOrderRepository := repository.NewPurchaseOrderRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	reader := service.NewReader(productRepository, storeRepository, saleRepository, transferRepository)

	catalogs := pos.NewCatalogs(reader, cfg.POS.SearchMinLength, logger)
	if err := catalogs.Reload(ctx); err != nil {
		// The terminal stays usable; snapshots load on the next catalog event or reload.
		logger.WarnContext(ctx, "error loading initial catalog", slog.Any("error", err))
	}

	rates := pos.NewRates(rateStore, cfg.POS.ExchangeRate)

	var writer pos.Writer
	switch cfg.POS.CommitStrategy {
	case config.CommitStrategyOrchestrated:
		ledger := service.NewLedger(dbClient, saleRepository, transferRepository, productRepository, outboxMsgRepository)
		writer = pos.NewOrchestratedWriter(ledger, ledger, ledger, ledger, logger)
	default:
		writer = service.NewProcedureWriter(dbClient, saleRepository, transferRepository, outboxMsgRepository)
	}
	logger.InfoContext(ctx, "commit strategy selected", slog.String("strategy", cfg.POS.CommitStrategy.String()))

	committer := pos.NewCommitter(writer, rates, catalogs, pos.NewMetrics(prometheus.DefaultRegisterer), logger)
	terminal := pos.NewTerminal(catalogs, committer, rates)

	deps := http.Deps{
		Auth:           service.NewAuthService(cfg.Auth, employeeRepository),
		Products:       service.NewProductService(dbClient, productRepository, outboxMsgRepository, blobStore),
		Stores:         service.NewStoreService(logger, dbClient, storeRepository, productRepository, outboxMsgRepository),
		Employees:      service.NewEmployeeService(employeeRepository),
		Suppliers:      service.NewSupplierService(supplierRepository),
		PurchaseOrders: service.NewPurchaseOrderService(logger, dbClient, purchaseOrderRepository, productRepository, outboxMsgRepository),
		Dashboard: service.NewDashboardService(
			saleRepository, transferRepository, productRepository, employeeRepository, supplierRepository,
		),
		Terminal:        terminal,
		Catalogs:        catalogs,
		History:         pos.NewHistory(reader),
		Rates:           rates,
		Files:           blobStore.Handler(),
		Health:          dbClient,
		Registerer:      prometheus.DefaultRegisterer,
		Gatherer:        prometheus.DefaultGatherer,
		HistoryPageSize: cfg.POS.HistoryPageSize,
	}

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, kafkaConsumer, catalogs)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		svc, err := http.New(cfg.HTTP, logger, deps)
		if err != nil {
			panic(fmt.Errorf("error creating http service: %w", err))
		}
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	if cfg.POS.CartIdleTimeout > 0 {
		wg.Go(func() {
			ticker := time.NewTicker(cfg.POS.CartSweepInterval)
			defer ticker.Stop()

			for {
				select {
				case <-interruptChan:
					return
				case now := <-ticker.C:
					if n := terminal.EvictIdle(now, cfg.POS.CartIdleTimeout); n > 0 {
						logger.InfoContext(ctx, "evicted idle carts", slog.Int("count", n))
					}
				}
			}
		})
	}

	if !cfg.Relay.Enabled {
		logger.InfoContext(ctx, "in-process relay disabled")
		wg.Wait()
		return nil
	}

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer, prometheus.DefaultRegisterer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	wg.Wait()

	return nil
}

// newRateStore shares the exchange rate through Redis when it is configured.
func newRateStore(ctx context.Context, cfg config.Redis, logger *slog.Logger) (pos.RateStore, func(), error) {
	if cfg.Addr == "" {
		logger.InfoContext(ctx, "redis not configured, keeping exchange rate in memory")
		return pos.NewMemoryRateStore(), func() {}, nil
	}

	rdb, err := kv.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating redis client: %w", err)
	}
	return kv.NewRateStore(rdb, cfg.KeyPrefix), func() {
		if err := rdb.Close(); err != nil {
			logger.ErrorContext(ctx, "error closing redis client", slog.Any("error", err))
		}
	}, nil
}
