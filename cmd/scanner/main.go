// Package main is the entry point for the cross-exchange spread scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	depthapp "github.com/fd1az/spreadscanner/business/depth/app"
	pairsapp "github.com/fd1az/spreadscanner/business/pairs/app"
	pairsdomain "github.com/fd1az/spreadscanner/business/pairs/domain"
	spreadapp "github.com/fd1az/spreadscanner/business/spread/app"
	spreaddomain "github.com/fd1az/spreadscanner/business/spread/domain"
	supervisorapp "github.com/fd1az/spreadscanner/business/supervisor/app"
	supervisordomain "github.com/fd1az/spreadscanner/business/supervisor/domain"
	venueapp "github.com/fd1az/spreadscanner/business/venue/app"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
	"github.com/fd1az/spreadscanner/business/venue/infra/binance"
	"github.com/fd1az/spreadscanner/business/venue/infra/bybit"
	"github.com/fd1az/spreadscanner/business/venue/infra/gate"
	"github.com/fd1az/spreadscanner/business/venue/infra/kucoin"
	"github.com/fd1az/spreadscanner/business/venue/infra/okx"
	"github.com/fd1az/spreadscanner/internal/apm"
	"github.com/fd1az/spreadscanner/internal/config"
	"github.com/fd1az/spreadscanner/internal/csvlog"
	"github.com/fd1az/spreadscanner/internal/health"
	"github.com/fd1az/spreadscanner/internal/httpclient"
	"github.com/fd1az/spreadscanner/internal/logger"
	"github.com/fd1az/spreadscanner/internal/metrics"
	"github.com/fd1az/spreadscanner/internal/store"
	"github.com/fd1az/spreadscanner/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("spreadscanner %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting spread scanner",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	httpClient, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("venue"),
		httpclient.WithRequestTimeout(cfg.Scanner.FetchTimeout),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		return fmt.Errorf("failed to build venue http client: %w", err)
	}

	var adapters []venueapp.Adapter
	if cfg.Venues.Binance.Enabled {
		adapters = append(adapters, binance.New(httpClient, cfg.Venues.Binance.RequestsPerMinute))
	}
	if cfg.Venues.Bybit.Enabled {
		adapters = append(adapters, bybit.New(httpClient, cfg.Venues.Bybit.RequestsPerMinute))
	}
	if cfg.Venues.OKX.Enabled {
		adapters = append(adapters, okx.New(httpClient, cfg.Venues.OKX.RequestsPerMinute))
	}
	if cfg.Venues.Gate.Enabled {
		adapters = append(adapters, gate.New(httpClient, cfg.Venues.Gate.RequestsPerMinute))
	}
	if cfg.Venues.KuCoin.Enabled {
		adapters = append(adapters, kucoin.New(httpClient, cfg.Venues.KuCoin.RequestsPerMinute))
	}
	registry := venueapp.NewRegistry(adapters...)

	healthServer := health.NewServer(8081, version)
	healthServer.RegisterCheck("pairs_snapshot", func(ctx context.Context) (bool, string) {
		return true, "ok"
	})

	if err := os.MkdirAll(cfg.Logs.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}
	signalLog, err := csvlog.OpenSpreadSignalWriter(cfg.Logs.Dir + "/" + cfg.Logs.SpreadSignalFile)
	if err != nil {
		return fmt.Errorf("failed to open spread signal log: %w", err)
	}
	defer signalLog.Close()

	confirmedLog, err := csvlog.OpenConfirmedSignalWriter(cfg.Logs.Dir + "/" + cfg.Logs.ConfirmedFile)
	if err != nil {
		return fmt.Errorf("failed to open confirmed signal log: %w", err)
	}
	defer confirmedLog.Close()

	persistentStore, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		log.Warn(ctx, "persistent store unavailable, continuing without it", "error", err)
	}
	if persistentStore != nil {
		healthServer.RegisterCheck("store", func(ctx context.Context) (bool, string) {
			if err := persistentStore.Ping(ctx); err != nil {
				return false, err.Error()
			}
			return true, "ok"
		})
	}

	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	slot := pairsdomain.NewSlot()
	queue := spreaddomain.NewQueue(cfg.Scanner.SignalQueueDepth)

	normalizer := pairsapp.NewNormalizer(
		registry,
		slot,
		cfg.Scanner.Min24hVolumeUSDT,
		cfg.Scanner.NormalizePeriod,
		cfg.Scanner.FetchTimeout,
		log,
	)

	scanner := spreadapp.NewScanner(
		registry,
		slot,
		queue,
		signalLog,
		cfg.Scanner.MinProfitPctDecimal(),
		cfg.Scanner.ScanPeriod,
		cfg.Scanner.FetchTimeout,
		cfg.Scanner.EmptyRetry,
		log,
	)

	checker := depthapp.NewChecker(registry, queue, confirmedLog, depthapp.Config{
		MinExecutionNotionalUSDT: cfg.Scanner.MinExecutionNotionalDecimal(),
		MaxBookDepthLevels:       cfg.Scanner.MaxBookDepthLevels,
		OrderBookDepth:           cfg.Scanner.OrderbookDepth,
		SafetyFeeBufferPct:       cfg.Scanner.SafetyFeeBufferPctDecimal(),
		TargetNetProfitPct:       cfg.Scanner.TargetNetProfitPctDecimal(),
		TakerFeesPct:             cfg.Scanner.TakerFeesDecimal(),
		FetchTimeout:             cfg.Scanner.FetchTimeout,
	}, log)

	sup := supervisorapp.New(supervisorapp.Config{
		RestartInitialBackoff: cfg.Supervisor.RestartInitialBackoff,
		RestartMaxBackoff:     cfg.Supervisor.RestartMaxBackoff,
		ShutdownGracePeriod:   cfg.Supervisor.ShutdownGracePeriod,
	}, log,
		supervisordomain.WorkerFunc{WorkerName: "normalizer", RunFunc: normalizer.Run},
		supervisordomain.WorkerFunc{WorkerName: "scanner", RunFunc: scanner.Run},
		supervisordomain.WorkerFunc{WorkerName: "checker", RunFunc: checker.Run},
	)

	if tuiMode {
		reporter := ui.NewReporter()
		normalizer.Reporter = reporter
		scanner.Reporter = reporter
		checker.Reporter = reporter
		sup.Reporter = reporter

		for _, v := range venuedomain.AllVenues {
			if _, ok := registry.Get(v); !ok {
				reporter.VenueStatus(v, false)
			}
		}

		return runTUI(ctx, sup)
	}

	log.Info(ctx, "all workers starting")
	return sup.Run(ctx)
}

func runTUI(ctx context.Context, sup *supervisorapp.Supervisor) error {
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		runCtx, runCancel := context.WithCancel(ctx)
		defer runCancel()

		done := make(chan error, 1)
		go func() { done <- sup.Run(runCtx) }()

		select {
		case err := <-done:
			errCh <- err
		case <-ctx.Done():
			<-done
			errCh <- nil
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	case <-time.After(time.Second):
		return nil
	}
}
