package strategy

import (
	"context"

	"github.com/alejandrodnm/surebet/internal/domain"
)

// Strategy define el contrato para analizar un evento y producir una Opportunity.
type Strategy interface {
	// Name devuelve el identificador de la estrategia.
	Name() string

	// Analyze evalúa un evento con las cuotas de todas sus casas.
	// Devuelve error si los datos son insuficientes.
	Analyze(ctx context.Context, event domain.Event) (domain.Opportunity, error)
}
