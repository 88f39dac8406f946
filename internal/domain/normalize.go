package domain

import "fmt"

// BestOdds es el mejor precio por outcome entre todas las casas de un evento.
type BestOdds struct {
	Outcomes   []Outcome
	Odds       OddsVector
	Bookmakers []string // casa que aporta cada mejor precio
}

// OddsFor devuelve la mejor cuota del outcome, o 0 si el mercado no lo tiene.
func (b BestOdds) OddsFor(o Outcome) float64 {
	for i, out := range b.Outcomes {
		if out == o {
			return b.Odds[i]
		}
	}
	return 0
}

// BookmakerFor devuelve la casa con la mejor cuota del outcome.
func (b BestOdds) BookmakerFor(o Outcome) string {
	for i, out := range b.Outcomes {
		if out == o {
			return b.Bookmakers[i]
		}
	}
	return ""
}

// BestOddsFor extrae la mejor cuota por outcome del evento.
// Devuelve ErrInsufficientData si algún outcome no tiene ninguna cuota positiva.
// En empate de precios gana la primera casa en el orden del feed.
func BestOddsFor(e Event) (BestOdds, error) {
	if len(e.Bookmakers) == 0 {
		return BestOdds{}, fmt.Errorf("domain.BestOddsFor %s: no bookmakers: %w", e.ID, ErrInsufficientData)
	}

	outcomes := e.Outcomes()
	best := BestOdds{
		Outcomes:   outcomes,
		Odds:       make(OddsVector, len(outcomes)),
		Bookmakers: make([]string, len(outcomes)),
	}

	for i, o := range outcomes {
		for _, q := range e.Quotes(o) {
			v, ok := q.Price.Get()
			if !ok {
				continue
			}
			if v > best.Odds[i] {
				best.Odds[i] = v
				best.Bookmakers[i] = q.Bookmaker
			}
		}
		if best.Odds[i] == 0 {
			return BestOdds{}, fmt.Errorf("domain.BestOddsFor %s: no quotes for %s: %w", e.ID, o, ErrInsufficientData)
		}
	}

	return best, nil
}
