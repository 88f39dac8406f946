package domain

import "time"

// Opportunity es el resultado del análisis de un evento en un ciclo de escaneo.
type Opportunity struct {
	ScanID    string
	Event     Event
	Best      BestOdds
	Result    ArbitrageResult // clasificación del vector de mejores cuotas
	ScannedAt time.Time

	// Combinations solo se rellena cuando se pide el análisis detallado.
	Combinations []CombinationResult
}

// IsArbitrage devuelve true si el vector de mejores cuotas es arbitraje.
func (o Opportunity) IsArbitrage() bool {
	return o.Result.IsArbitrage
}

// StakeFor devuelve el stake del outcome, o 0 si no hay arbitraje.
func (o Opportunity) StakeFor(out Outcome) float64 {
	for i, x := range o.Best.Outcomes {
		if x == out && i < len(o.Result.Stakes) {
			return o.Result.Stakes[i]
		}
	}
	return 0
}

// TruncateName devuelve el nombre truncado a maxLen caracteres.
// Si el nombre está vacío usa el ID del evento.
func TruncateName(name, id string, maxLen int) string {
	n := name
	if n == "" {
		n = id
	}
	// cortar por runas: los nombres del feed traen acentos y diéresis
	if r := []rune(n); len(r) > maxLen && maxLen > 3 {
		n = string(r[:maxLen-3]) + "..."
	}
	return n
}
