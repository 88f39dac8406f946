package domain

// Outcome es uno de los resultados posibles de un evento.
type Outcome int

const (
	Home Outcome = iota
	Draw
	Away
)

func (o Outcome) String() string {
	switch o {
	case Home:
		return "home"
	case Draw:
		return "draw"
	case Away:
		return "away"
	default:
		return "unknown"
	}
}

// OutcomesFor devuelve los outcomes de un mercado en orden fijo.
// Un mercado con empate tiene 3 outcomes, sin empate 2.
func OutcomesFor(hasDraw bool) []Outcome {
	if hasDraw {
		return []Outcome{Home, Draw, Away}
	}
	return []Outcome{Home, Away}
}
