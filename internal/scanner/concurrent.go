package scanner

// concurrent.go — worker pool para análisis paralelo de eventos.
//
// El análisis es CPU puro (sin I/O): el barrido de combinaciones crece como
// casas^outcomes, así que con 15-20 casas por evento conviene repartirlo.

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/surebet/internal/domain"
)

// analyzeEventsConcurrent analiza todos los eventos en paralelo usando un worker pool.
// Los eventos con datos insuficientes se registran en debug y se descartan.
//
// Si workers <= 0 usa runtime.NumCPU() × 2.
func analyzeEventsConcurrent(
	ctx context.Context,
	analyzer *Analyzer,
	events []domain.Event,
	workers int,
) []domain.Opportunity {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}

	workCh := make(chan domain.Event, len(events))
	resultCh := make(chan domain.Opportunity, len(events))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range workCh {
				opp, err := analyzer.Analyze(ctx, ev)
				if err != nil {
					level := slog.LevelWarn
					if errors.Is(err, domain.ErrInsufficientData) {
						level = slog.LevelDebug
					}
					slog.Log(ctx, level, "analyze failed, skipping event",
						"event_id", ev.ID,
						"err", err,
					)
					continue
				}
				resultCh <- opp
			}
		}()
	}

	for _, ev := range events {
		workCh <- ev
	}
	close(workCh)

	// Cerrar resultCh cuando todos los workers terminen.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	opps := make([]domain.Opportunity, 0, len(events))
	for opp := range resultCh {
		opps = append(opps, opp)
	}

	slog.Debug("concurrent analysis complete",
		"events_queued", len(events),
		"opportunities", len(opps),
		"workers", workers,
	)

	return opps
}
