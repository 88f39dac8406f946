package domain

import "time"

// Event es un partido con las cuotas de todas las casas que lo cubren.
type Event struct {
	ID           string
	Sport        string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Bookmakers   []BookmakerOdds
}

// Name devuelve el nombre legible del partido, con el deporte como prefijo si existe.
func (e Event) Name() string {
	name := e.HomeTeam + " vs " + e.AwayTeam
	if e.Sport != "" {
		return "[" + e.Sport + "] " + name
	}
	return name
}

// HasDraw devuelve true si alguna casa cotiza el empate.
func (e Event) HasDraw() bool {
	for _, b := range e.Bookmakers {
		if _, ok := b.Draw.Get(); ok {
			return true
		}
	}
	return false
}

// Outcomes devuelve los outcomes del mercado (2 o 3).
func (e Event) Outcomes() []Outcome {
	return OutcomesFor(e.HasDraw())
}

// Quotes devuelve la lista (casa, precio) para un outcome, en el orden del feed.
// Las casas sin precio aparecen con NoPrice.
func (e Event) Quotes(o Outcome) []Quote {
	quotes := make([]Quote, 0, len(e.Bookmakers))
	for _, b := range e.Bookmakers {
		quotes = append(quotes, Quote{Bookmaker: b.Site, Outcome: o, Price: b.PriceFor(o)})
	}
	return quotes
}
