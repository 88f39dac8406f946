package notify

import (
	"context"
	"errors"

	"github.com/alejandrodnm/surebet/internal/domain"
	"github.com/alejandrodnm/surebet/internal/ports"
)

// Multi reparte cada ciclo entre varios notificadores.
// Un fallo no impide que los demás reciban las oportunidades.
type Multi struct {
	notifiers []ports.Notifier
}

// NewMulti crea un Multi; los nil se ignoran.
func NewMulti(notifiers ...ports.Notifier) *Multi {
	m := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Notify implementa ports.Notifier.
func (m *Multi) Notify(ctx context.Context, opportunities []domain.Opportunity) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, opportunities); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
