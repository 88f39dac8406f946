package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/surebet/internal/adapters/notify"
	"github.com/alejandrodnm/surebet/internal/adapters/storage"
)

// runHistory imprime los arbitrajes guardados.
func runHistory(ctx context.Context, store *storage.SQLiteStorage, console *notify.Console) error {
	arbs, err := store.GetArbitrages(ctx)
	if err != nil {
		return fmt.Errorf("load arbitrages: %w", err)
	}
	console.PrintHistory(arbs)
	return nil
}

// runShow imprime la vista de detalle de un evento guardado.
func runShow(ctx context.Context, store *storage.SQLiteStorage, console *notify.Console, eventID string) error {
	opp, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	console.PrintDetail(opp)
	return nil
}

// replayHistory recarga los arbitrajes guardados al arrancar el loop.
func replayHistory(ctx context.Context, store *storage.SQLiteStorage, console *notify.Console) {
	arbs, err := store.GetArbitrages(ctx)
	if err != nil {
		slog.Warn("could not load historical arbitrages", "err", err)
		return
	}
	if len(arbs) == 0 {
		return
	}
	slog.Info("loaded historical arbitrages", "count", len(arbs))
	console.PrintHistory(arbs)
}
