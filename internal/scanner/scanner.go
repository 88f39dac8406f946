package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/alejandrodnm/surebet/internal/domain"
	"github.com/alejandrodnm/surebet/internal/ports"
	"github.com/google/uuid"
)

const defaultMinBookmakers = 2

// Config contiene la configuración del scanner.
type Config struct {
	ScanInterval    time.Duration
	Filter          FilterConfig
	MinBookmakers   int // eventos con menos casas se descartan sin analizar
	AnalysisWorkers int // goroutines para análisis paralelo (0 = NumCPU*2)
	DryRun          bool
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		ScanInterval:  120 * time.Second,
		Filter:        DefaultFilterConfig(),
		MinBookmakers: defaultMinBookmakers,
	}
}

// Scanner es el orquestador principal del loop de escaneo.
type Scanner struct {
	cfg      Config
	events   ports.EventProvider
	storage  ports.Storage
	notifier ports.Notifier
	seen     ports.SeenStore
	analyzer *Analyzer
	filter   *Filter
	newID    func() string
}

// New crea un Scanner con todas las dependencias inyectadas.
// La strategy se inyecta desde fuera (cmd/) para respetar la inversión de dependencias.
// Si seen es nil se usa un set en memoria.
func New(
	cfg Config,
	events ports.EventProvider,
	storage ports.Storage,
	notifier ports.Notifier,
	seen ports.SeenStore,
	strategy StrategyAnalyzer,
) *Scanner {
	if cfg.MinBookmakers <= 0 {
		cfg.MinBookmakers = defaultMinBookmakers
	}
	if seen == nil {
		seen = NewMemorySeenStore()
	}
	return &Scanner{
		cfg:      cfg,
		events:   events,
		storage:  storage,
		notifier: notifier,
		seen:     seen,
		analyzer: NewAnalyzer(strategy),
		filter:   NewFilter(cfg.Filter),
		newID:    func() string { return uuid.New().String() },
	}
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele.
// Si cfg.DryRun está activo, solo ejecuta un ciclo.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"dry_run", s.cfg.DryRun,
		"workers", s.cfg.AnalysisWorkers,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if s.cfg.DryRun {
			return err
		}
	}

	if s.cfg.DryRun {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo de escaneo y devuelve las oportunidades.
func (s *Scanner) RunOnce(ctx context.Context) ([]domain.Opportunity, error) {
	return s.cycle(ctx)
}

// runCycle ejecuta un ciclo completo y notifica/persiste los resultados.
func (s *Scanner) runCycle(ctx context.Context) error {
	start := time.Now()

	opps, err := s.cycle(ctx)
	if err != nil {
		return err
	}

	emitArbitrageAlerts(opps)

	if err := s.notifier.Notify(ctx, opps); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if s.storage != nil {
		if err := s.storage.SaveScan(ctx, opps); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("scan cycle complete",
		"opportunities", len(opps),
		"arbitrages", countArbitrages(opps),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// cycle hace fetch → dedup → concurrent analyze → filter → rank.
func (s *Scanner) cycle(ctx context.Context) ([]domain.Opportunity, error) {
	events, err := s.events.FetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanner.cycle: fetch events: %w", err)
	}

	fresh := s.unseen(ctx, events)
	eligible := make([]domain.Event, 0, len(fresh))
	for _, ev := range fresh {
		if len(ev.Bookmakers) < s.cfg.MinBookmakers {
			slog.Debug("not enough bookmakers", "event_id", ev.ID, "bookmakers", len(ev.Bookmakers))
			continue
		}
		eligible = append(eligible, ev)
	}

	opps := analyzeEventsConcurrent(ctx, s.analyzer, eligible, s.cfg.AnalysisWorkers)

	scanID := s.newID()
	for i := range opps {
		opps[i].ScanID = scanID
	}

	if len(fresh) > 0 {
		ids := make([]string, len(fresh))
		for i, ev := range fresh {
			ids[i] = ev.ID
		}
		if err := s.seen.Mark(ctx, ids...); err != nil {
			slog.Warn("seen store mark failed", "err", err, "events", len(ids))
		}
	}

	slog.Debug("cycle analyzed",
		"scan_id", scanID,
		"fetched", len(events),
		"fresh", len(fresh),
		"eligible", len(eligible),
		"analyzed", len(opps),
	)

	filtered := s.filter.Apply(opps)
	return rankByProfit(filtered), nil
}

// unseen devuelve los eventos no procesados en ciclos anteriores.
// Si el seen store falla, el evento se trata como nuevo.
func (s *Scanner) unseen(ctx context.Context, events []domain.Event) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	batch := make(map[string]bool, len(events))
	for _, ev := range events {
		if batch[ev.ID] {
			continue
		}
		batch[ev.ID] = true

		seen, err := s.seen.Seen(ctx, ev.ID)
		if err != nil {
			slog.Warn("seen store lookup failed", "event_id", ev.ID, "err", err)
		}
		if seen {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// emitArbitrageAlerts registra una alerta por cada arbitraje detectado.
func emitArbitrageAlerts(opps []domain.Opportunity) {
	for _, opp := range opps {
		if !opp.IsArbitrage() {
			continue
		}
		attrs := []any{
			"event", opp.Event.Name(),
			"event_id", opp.Event.ID,
			"margin", fmt.Sprintf("%.4f", opp.Result.Margin),
			"profit", fmt.Sprintf("$%.2f", opp.Result.Profit),
			"bankroll", fmt.Sprintf("$%.2f", opp.Result.Bankroll),
		}
		for i, out := range opp.Best.Outcomes {
			attrs = append(attrs, out.String(), fmt.Sprintf("%s@%.2f stake $%.2f",
				opp.Best.Bookmakers[i], opp.Best.Odds[i], opp.Result.Stakes[i]))
		}
		slog.Warn("*** ARBITRAGE ***", attrs...)
	}
}

// rankByProfit ordena: arbitrajes primero, luego profit y margen descendentes.
// El ID del evento desempata para que el orden sea determinista.
func rankByProfit(opps []domain.Opportunity) []domain.Opportunity {
	sort.Slice(opps, func(i, j int) bool {
		a, b := opps[i], opps[j]
		if a.IsArbitrage() != b.IsArbitrage() {
			return a.IsArbitrage()
		}
		if a.Result.Profit != b.Result.Profit {
			return a.Result.Profit > b.Result.Profit
		}
		if a.Result.Margin != b.Result.Margin {
			return a.Result.Margin > b.Result.Margin
		}
		return a.Event.ID < b.Event.ID
	})
	return opps
}

// countArbitrages cuenta las oportunidades con arbitraje.
func countArbitrages(opps []domain.Opportunity) int {
	n := 0
	for _, o := range opps {
		if o.IsArbitrage() {
			n++
		}
	}
	return n
}
