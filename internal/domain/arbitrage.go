package domain

import "fmt"

// OddsVector es una cuota por outcome, en el orden fijo del mercado.
// El motor no sabe qué casa aportó cada valor.
type OddsVector []float64

// ArbitrageResult es la clasificación y el reparto de stakes para un OddsVector.
type ArbitrageResult struct {
	IsArbitrage bool
	Margin      float64 // 1 - InverseSum (positivo = arbitraje)
	InverseSum  float64
	Stakes      []float64 // uno por outcome; vacío si no hay arbitraje
	Payout      float64   // retorno idéntico sea cual sea el resultado
	Profit      float64   // Payout - Bankroll
	Bankroll    float64
}

// TotalStake devuelve la suma de los stakes.
func (r ArbitrageResult) TotalStake() float64 {
	total := 0.0
	for _, s := range r.Stakes {
		total += s
	}
	return total
}

// ROI devuelve Profit / TotalStake, o 0 si no hay stakes.
func (r ArbitrageResult) ROI() float64 {
	total := r.TotalStake()
	if total <= 0 {
		return 0
	}
	return r.Profit / total
}

// InverseSum devuelve Σ(1/oᵢ) sobre las cuotas estrictamente positivas.
// Las entradas <= 0 se ignoran, lo que permite evaluar un vector parcial
// (p. ej. sin empate) como mercado de 2 outcomes.
func InverseSum(odds OddsVector) (float64, error) {
	sum := 0.0
	n := 0
	for _, o := range odds {
		if o > 0 {
			sum += 1 / o
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("domain.InverseSum: %w", ErrDegenerateInput)
	}
	return sum, nil
}

// Classify devuelve si el vector es arbitraje y su margen.
// margin == 0 es break-even y NO cuenta como arbitraje.
func Classify(odds OddsVector) (bool, float64, error) {
	inv, err := InverseSum(odds)
	if err != nil {
		return false, 0, err
	}
	margin := 1 - inv
	return margin > 0, margin, nil
}

// AllocateStakes reparte el bankroll de forma que stakeᵢ × oddsᵢ = payout para todo i.
//
// Si InverseSum >= 1 devuelve un resultado inerte (sin stakes, payout y profit 0)
// en vez de error: se puede llamar sin comprobar antes. No redondea.
func AllocateStakes(odds OddsVector, bankroll float64) (ArbitrageResult, error) {
	inv, err := InverseSum(odds)
	if err != nil {
		return ArbitrageResult{}, err
	}
	result := ArbitrageResult{
		Margin:     1 - inv,
		InverseSum: inv,
		Bankroll:   bankroll,
	}
	if inv >= 1 {
		return result, nil
	}

	payout := bankroll / inv
	stakes := make([]float64, len(odds))
	for i, o := range odds {
		if o > 0 {
			stakes[i] = payout / o
		}
	}

	result.IsArbitrage = true
	result.Stakes = stakes
	result.Payout = payout
	result.Profit = payout - bankroll
	return result, nil
}

// Evaluate clasifica el vector y, si es arbitraje, calcula los stakes.
// Margin e InverseSum quedan informados también en el resultado inerte.
func Evaluate(odds OddsVector, bankroll float64) (ArbitrageResult, error) {
	isArb, margin, err := Classify(odds)
	if err != nil {
		return ArbitrageResult{}, err
	}
	result, err := AllocateStakes(odds, bankroll)
	if err != nil {
		return ArbitrageResult{}, err
	}
	result.IsArbitrage = isArb
	result.Margin = margin
	return result, nil
}
