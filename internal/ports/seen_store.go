package ports

import "context"

// SeenStore recuerda los eventos ya procesados para no re-analizarlos ni re-notificarlos.
type SeenStore interface {
	// Seen devuelve true si el evento ya fue procesado.
	Seen(ctx context.Context, eventID string) (bool, error)

	// Mark registra los eventos como procesados.
	Mark(ctx context.Context, eventIDs ...string) error
}
