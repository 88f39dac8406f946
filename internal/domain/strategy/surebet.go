package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/surebet/internal/domain"
)

const defaultBankroll = 100.0

var _ Strategy = (*SureBet)(nil)

// SureBetConfig configura la estrategia.
type SureBetConfig struct {
	// Bankroll es el capital repartido entre los outcomes del mejor vector.
	Bankroll float64
	// ReferenceBankroll es el capital usado en el barrido de combinaciones.
	ReferenceBankroll float64
	// Detail activa el barrido completo de combinaciones de casas.
	Detail bool
}

// SureBet detecta arbitraje sobre las mejores cuotas por outcome y,
// opcionalmente, valida todas las combinaciones de casas.
type SureBet struct {
	cfg SureBetConfig
	now func() time.Time
}

// NewSureBet crea la estrategia con la configuración dada.
func NewSureBet(cfg SureBetConfig) *SureBet {
	if cfg.Bankroll <= 0 {
		cfg.Bankroll = defaultBankroll
	}
	if cfg.ReferenceBankroll <= 0 {
		cfg.ReferenceBankroll = defaultBankroll
	}
	return &SureBet{cfg: cfg, now: time.Now}
}

// Name implementa Strategy.
func (s *SureBet) Name() string { return "surebet" }

// Analyze implementa Strategy: normaliza, clasifica y reparte stakes.
func (s *SureBet) Analyze(_ context.Context, event domain.Event) (domain.Opportunity, error) {
	best, err := domain.BestOddsFor(event)
	if err != nil {
		return domain.Opportunity{}, fmt.Errorf("surebet: %w", err)
	}

	result, err := domain.Evaluate(best.Odds, s.cfg.Bankroll)
	if err != nil {
		return domain.Opportunity{}, fmt.Errorf("surebet: event %s: %w", event.ID, err)
	}

	opp := domain.Opportunity{
		Event:     event,
		Best:      best,
		Result:    result,
		ScannedAt: s.now(),
	}

	if s.cfg.Detail {
		opp.Combinations = domain.EvaluateCombinations(event.Bookmakers, best.Outcomes, s.cfg.ReferenceBankroll)
	}

	return opp, nil
}
