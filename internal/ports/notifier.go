package ports

import (
	"context"

	"github.com/alejandrodnm/surebet/internal/domain"
)

// Notifier presenta las oportunidades encontradas al usuario.
type Notifier interface {
	// Notify recibe las oportunidades de un ciclo, ya ordenadas.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, opportunities []domain.Opportunity) error
}
