package main

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/surebet/config"
	"github.com/alejandrodnm/surebet/internal/adapters/cache"
	"github.com/alejandrodnm/surebet/internal/adapters/mock"
	"github.com/alejandrodnm/surebet/internal/adapters/notify"
	"github.com/alejandrodnm/surebet/internal/adapters/oddsapi"
	"github.com/alejandrodnm/surebet/internal/ports"
	"github.com/alejandrodnm/surebet/internal/scanner"
)

// newEventProvider elige el feed: The Odds API o el generador sintético.
func newEventProvider(cfg *config.Config, useMock bool) ports.EventProvider {
	if useMock {
		mc := mock.Config{
			Teams:    cfg.Mock.Teams,
			MinPrice: cfg.Mock.MinPrice,
			MaxPrice: cfg.Mock.MaxPrice,
			PerCycle: cfg.Mock.PerCycle,
			Seed:     cfg.Mock.Seed,
		}
		if len(cfg.Mock.Bookmakers) == 2 {
			mc.Bookmakers = [2]string{cfg.Mock.Bookmakers[0], cfg.Mock.Bookmakers[1]}
		}
		return mock.NewGenerator(mc)
	}
	return oddsapi.NewClient(oddsapi.Config{
		BaseURL:       cfg.API.BaseURL,
		APIKey:        cfg.API.APIKey,
		Regions:       cfg.API.Regions,
		Markets:       cfg.API.Markets,
		DefaultSports: cfg.API.DefaultSports,
		SportPause:    cfg.SportPause(),
		Concurrency:   cfg.API.Concurrency,
	})
}

// newSeenStore usa Redis si está configurado; si no (o si no responde), memoria.
func newSeenStore(ctx context.Context, cfg *config.Config) (ports.SeenStore, func()) {
	if cfg.Cache.Addr == "" {
		return scanner.NewMemorySeenStore(), func() {}
	}
	rs, err := cache.NewRedisSeenStore(ctx, cache.Config{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
		TTL:      cfg.CacheTTL(),
	})
	if err != nil {
		slog.Warn("redis unavailable, using in-memory seen set", "err", err, "addr", cfg.Cache.Addr)
		return scanner.NewMemorySeenStore(), func() {}
	}
	slog.Info("seen set on redis", "addr", cfg.Cache.Addr, "ttl", cfg.CacheTTL())
	return rs, func() { rs.Close() }
}

// newNotifier combina la consola con Telegram si hay token.
func newNotifier(cfg *config.Config, console *notify.Console) ports.Notifier {
	if cfg.Telegram.Token == "" {
		return console
	}
	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		slog.Warn("telegram disabled", "err", err)
		return console
	}
	return notify.NewMulti(console, tg)
}
