package ports

import (
	"context"

	"github.com/alejandrodnm/surebet/internal/domain"
)

// EventProvider obtiene los eventos con cuotas de todas las casas.
type EventProvider interface {
	// FetchEvents devuelve los eventos del ciclo actual.
	// Un evento aparece una sola vez aunque varios deportes lo incluyan.
	FetchEvents(ctx context.Context) ([]domain.Event, error)
}
