package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/surebet/config"
	"github.com/alejandrodnm/surebet/internal/adapters/notify"
	"github.com/alejandrodnm/surebet/internal/adapters/storage"
	"github.com/alejandrodnm/surebet/internal/domain/strategy"
	"github.com/alejandrodnm/surebet/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	useMock := flag.Bool("mock", false, "use the synthetic 2-way feed instead of The Odds API")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full table + stake breakdown (default: compact 1-line)")
	detail := flag.Bool("detail", false, "evaluate and print every bookmaker combination")
	history := flag.Bool("history", false, "print stored arbitrages and exit")
	show := flag.String("show", "", "print stored odds and all combinations for an event id and exit")
	noStore := flag.Bool("no-store", false, "do not persist scans to SQLite")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *detail {
		cfg.Scanner.Detail = true
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	console := notify.NewConsole(notify.ConsoleConfig{
		Table:             *table,
		Detail:            cfg.Scanner.Detail,
		ReferenceBankroll: cfg.Scanner.ReferenceBankroll,
	})

	var store *storage.SQLiteStorage
	if !*noStore || *history || *show != "" {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	switch {
	case *show != "":
		if err := runShow(ctx, store, console, *show); err != nil {
			slog.Error("show failed", "err", err, "event_id", *show)
			os.Exit(1)
		}
		return
	case *history:
		if err := runHistory(ctx, store, console); err != nil {
			slog.Error("history failed", "err", err)
			os.Exit(1)
		}
		return
	}

	mockFeed := *useMock || !cfg.HasAPIKey()
	slog.Info("surebet starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"feed", feedName(mockFeed),
		"bankroll", cfg.Scanner.Bankroll,
		"detail", cfg.Scanner.Detail,
		"once", *once,
		"store", store != nil,
	)

	events := newEventProvider(cfg, mockFeed)

	seen, closeSeen := newSeenStore(ctx, cfg)
	defer closeSeen()

	notifier := newNotifier(cfg, console)

	scanCfg := scanner.DefaultConfig()
	scanCfg.ScanInterval = cfg.ScanInterval()
	scanCfg.MinBookmakers = cfg.Scanner.MinBookmakers
	scanCfg.AnalysisWorkers = cfg.Scanner.AnalysisWorkers
	scanCfg.DryRun = *once
	scanCfg.Filter = scanner.FilterConfig{
		OnlyArbitrage: cfg.Scanner.OnlyArbitrage,
		MinProfit:     cfg.Scanner.MinProfit,
		MinMargin:     cfg.Scanner.MinMargin,
	}

	var strat strategy.Strategy = strategy.NewSureBet(strategy.SureBetConfig{
		Bankroll:          cfg.Scanner.Bankroll,
		ReferenceBankroll: cfg.Scanner.ReferenceBankroll,
		Detail:            cfg.Scanner.Detail,
	})
	slog.Info("strategy loaded", "strategy", strat.Name(), "reference_bankroll", cfg.Scanner.ReferenceBankroll)

	// Con store nil el scanner no persiste; evitar pasar un *SQLiteStorage nil como interfaz.
	var s *scanner.Scanner
	if store != nil {
		replayHistory(ctx, store, console)
		s = scanner.New(scanCfg, events, store, notifier, seen, strat)
	} else {
		s = scanner.New(scanCfg, events, nil, notifier, seen, strat)
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("surebet stopped cleanly")
}

func feedName(mock bool) string {
	if mock {
		return "mock"
	}
	return "the-odds-api"
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
