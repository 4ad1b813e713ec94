package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/nellis"
	"auction-scanner/internal/observability"
	"auction-scanner/internal/scanner"
	"auction-scanner/internal/storage"
	chstore "auction-scanner/internal/storage/clickhouse"
	"auction-scanner/internal/storage/memory"
	"auction-scanner/internal/storage/migrations"
	pgstore "auction-scanner/internal/storage/postgres"
)

func main() {
	// Parse flags
	baseURL := flag.String("base-url", nellis.DefaultBaseURL, "Marketplace base URL")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for price history (empty to disable)")
	location := flag.String("location", string(domain.LocationHouston), "Pickup location to scan")
	sortBy := flag.String("sort-by", scanner.DefaultSortBy, "Search sort order")
	pageSize := flag.Int("page-size", scanner.DefaultPageSize, "Listings per search page")
	maxPages := flag.Int("max-pages", scanner.DefaultMaxPages, "Maximum pages per category scan")
	gracePeriod := flag.Duration("grace-period", scanner.DefaultGracePeriod, "Delay past close time before reconciling a listing")
	scanInterval := flag.Duration("scan-interval", 1*time.Hour, "Interval between full category scans")
	reconcileInterval := flag.Duration("reconcile-interval", 15*time.Minute, "Interval between reconciliation passes")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[scanner] ", log.LstdFlags|log.Lshortfile)

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err := run(ctx, logger, options{
		baseURL:           *baseURL,
		postgresDSN:       *postgresDSN,
		clickhouseDSN:     *clickhouseDSN,
		location:          domain.Location(*location),
		sortBy:            *sortBy,
		pageSize:          *pageSize,
		maxPages:          *maxPages,
		gracePeriod:       *gracePeriod,
		scanInterval:      *scanInterval,
		reconcileInterval: *reconcileInterval,
		useMemory:         *useMemory,
	})

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

type options struct {
	baseURL           string
	postgresDSN       string
	clickhouseDSN     string
	location          domain.Location
	sortBy            string
	pageSize          int
	maxPages          int
	gracePeriod       time.Duration
	scanInterval      time.Duration
	reconcileInterval time.Duration
	useMemory         bool
}

// run wires storage and the marketplace client, then alternates scans and
// reconciliation passes until the context is cancelled.
func run(ctx context.Context, logger *log.Logger, opts options) error {
	// Require --postgres-dsn unless --use-memory is explicitly set
	if !opts.useMemory && opts.postgresDSN == "" {
		return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	// Create stores (use interfaces)
	var listingStore storage.ListingStore = memory.NewListingStore()
	var inventoryStore storage.InventoryStore = memory.NewInventoryStore()
	var snapshotStore storage.PriceSnapshotStore

	if !opts.useMemory {
		pool, err := pgstore.NewPool(ctx, opts.postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("apply postgres migrations: %w", err)
		}

		listingStore = pgstore.NewListingStore(pool)
		inventoryStore = pgstore.NewInventoryStore(pool)
	}

	if opts.clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, opts.clickhouseDSN)
		if err != nil {
			return fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer conn.Close()

		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return fmt.Errorf("apply clickhouse migrations: %w", err)
		}

		snapshotStore = chstore.NewPriceSnapshotStore(conn)
	} else if opts.useMemory {
		snapshotStore = memory.NewPriceSnapshotStore()
	}

	// Create marketplace client
	client := nellis.NewClient(opts.baseURL, nellis.WithLogger(logger))

	metrics := observability.NewMetrics("")

	s := scanner.New(scanner.Options{
		Source:      client,
		Listings:    listingStore,
		Inventory:   inventoryStore,
		Snapshots:   snapshotStore,
		Metrics:     metrics,
		Location:    opts.location,
		SortBy:      opts.sortBy,
		PageSize:    opts.pageSize,
		MaxPages:    opts.maxPages,
		GracePeriod: opts.gracePeriod,
		Logger:      logger,
	})

	logger.Printf("Starting scanner: location=%s scan=%v reconcile=%v", opts.location, opts.scanInterval, opts.reconcileInterval)

	// Run both passes once at startup, then on their own tickers.
	if err := s.ScanAllCategories(ctx); err != nil {
		return err
	}
	if err := s.ReconcileClosedAuctions(ctx); err != nil {
		logger.Printf("Initial reconciliation failed: %v", err)
	}

	scanTicker := time.NewTicker(opts.scanInterval)
	defer scanTicker.Stop()
	reconcileTicker := time.NewTicker(opts.reconcileInterval)
	defer reconcileTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-scanTicker.C:
			if err := s.ScanAllCategories(ctx); err != nil {
				return err
			}
		case <-reconcileTicker.C:
			if err := s.ReconcileClosedAuctions(ctx); err != nil {
				logger.Printf("Reconciliation failed: %v", err)
			}
		}
	}
}
