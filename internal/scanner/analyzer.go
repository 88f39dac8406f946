package scanner

import (
	"context"

	"github.com/alejandrodnm/surebet/internal/domain"
)

// StrategyAnalyzer es el subconjunto de strategy.Strategy que usa el Analyzer.
type StrategyAnalyzer interface {
	Analyze(ctx context.Context, event domain.Event) (domain.Opportunity, error)
}

// Analyzer delega el cálculo de métricas a una Strategy inyectada.
type Analyzer struct {
	strategy StrategyAnalyzer
}

// NewAnalyzer crea un Analyzer que delega en la strategy dada.
func NewAnalyzer(s StrategyAnalyzer) *Analyzer {
	return &Analyzer{strategy: s}
}

// Analyze clasifica un evento.
func (a *Analyzer) Analyze(ctx context.Context, event domain.Event) (domain.Opportunity, error) {
	return a.strategy.Analyze(ctx, event)
}
