package oddsapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/surebet/internal/domain"
	"golang.org/x/sync/errgroup"
)

const upcomingSport = "upcoming"

// FetchActiveSports devuelve las claves de los deportes activos sin outrights.
func (c *Client) FetchActiveSports(ctx context.Context) ([]string, error) {
	var raw []sport
	if err := c.get(ctx, c.endpoint("/v4/sports", nil), &raw); err != nil {
		return nil, fmt.Errorf("oddsapi.FetchActiveSports: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for _, s := range raw {
		if s.Active && !s.HasOutrights {
			keys = append(keys, s.Key)
		}
	}
	slog.Debug("active sports", "count", len(keys))
	return keys, nil
}

// FetchOdds devuelve los eventos h2h de un deporte en cuotas decimales.
func (c *Client) FetchOdds(ctx context.Context, sportKey string) ([]domain.Event, error) {
	params := url.Values{}
	params.Set("regions", c.cfg.Regions)
	params.Set("markets", c.cfg.Markets)
	params.Set("oddsFormat", "decimal")

	var raw []oddsEvent
	path := "/v4/sports/" + url.PathEscape(sportKey) + "/odds"
	if err := c.get(ctx, c.endpoint(path, params), &raw); err != nil {
		return nil, fmt.Errorf("oddsapi.FetchOdds: sport %s: %w", sportKey, err)
	}
	return mapEvents(raw), nil
}

// FetchEvents implementa ports.EventProvider.
// Descarga "upcoming" y cada deporte activo en paralelo (limitado por el rate limiter)
// y deduplica por ID manteniendo el orden de la lista de deportes.
// Un deporte que falla se registra y cuenta como vacío.
func (c *Client) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	sports, err := c.FetchActiveSports(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("fetch sports failed, using default list", "err", err)
	}
	if len(sports) == 0 {
		sports = c.cfg.DefaultSports
	}

	keys := append([]string{upcomingSport}, sports...)
	perSport := make([][]domain.Event, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i, key := range keys {
		g.Go(func() error {
			events, err := c.FetchOdds(gctx, key)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.Warn("fetch odds failed", "sport", key, "err", err)
				return nil
			}
			slog.Debug("odds fetched", "sport", key, "events", len(events))
			perSport[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("oddsapi.FetchEvents: %w", err)
	}

	return dedupEvents(perSport), nil
}

// dedupEvents aplana los lotes conservando la primera aparición de cada ID.
func dedupEvents(batches [][]domain.Event) []domain.Event {
	seen := make(map[string]bool)
	var out []domain.Event
	for _, batch := range batches {
		for _, ev := range batch {
			if seen[ev.ID] {
				continue
			}
			seen[ev.ID] = true
			out = append(out, ev)
		}
	}
	return out
}
