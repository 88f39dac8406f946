package domain

// Combination asigna exactamente una casa a cada outcome.
// Una misma casa puede repetirse en varios outcomes.
type Combination struct {
	Outcomes []Outcome
	Sites    []string
	Odds     OddsVector
}

// CombinationResult es la evaluación de una combinación con el motor de arbitraje.
type CombinationResult struct {
	Combination
	IsArbitrage bool
	Margin      float64
	Profit      float64
	Stakes      []float64
}

// EnumerateCombinations genera el producto cartesiano casa × outcome.
//
// El orden es el de bucles anidados con el primer outcome como bucle exterior.
// Se omiten las combinaciones donde la casa elegida no cotiza su outcome.
// No deduplica: combinaciones con la misma casa en varios outcomes se incluyen.
func EnumerateCombinations(books []BookmakerOdds, outcomes []Outcome) []Combination {
	k := len(outcomes)
	n := len(books)
	if k == 0 || n == 0 {
		return nil
	}

	var out []Combination
	idx := make([]int, k) // odómetro: idx[i] es la casa elegida para outcomes[i]
	for {
		if c, ok := buildCombination(books, outcomes, idx); ok {
			out = append(out, c)
		}

		// Avanzar el odómetro: el último outcome gira más rápido.
		pos := k - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < n {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return out
		}
	}
}

// buildCombination arma la combinación para los índices dados.
// Devuelve false si falta algún precio requerido.
func buildCombination(books []BookmakerOdds, outcomes []Outcome, idx []int) (Combination, bool) {
	c := Combination{
		Outcomes: outcomes,
		Sites:    make([]string, len(outcomes)),
		Odds:     make(OddsVector, len(outcomes)),
	}
	for i, o := range outcomes {
		b := books[idx[i]]
		v, ok := b.PriceFor(o).Get()
		if !ok {
			return Combination{}, false
		}
		c.Sites[i] = b.Site
		c.Odds[i] = v
	}
	return c, true
}

// EvaluateCombinations enumera y clasifica todas las combinaciones válidas,
// calculando stakes contra un bankroll de referencia explícito.
func EvaluateCombinations(books []BookmakerOdds, outcomes []Outcome, referenceBankroll float64) []CombinationResult {
	combos := EnumerateCombinations(books, outcomes)
	results := make([]CombinationResult, 0, len(combos))
	for _, c := range combos {
		// Todas las cuotas de una combinación válida son > 0: Evaluate no falla.
		res, err := Evaluate(c.Odds, referenceBankroll)
		if err != nil {
			continue
		}
		results = append(results, CombinationResult{
			Combination: c,
			IsArbitrage: res.IsArbitrage,
			Margin:      res.Margin,
			Profit:      res.Profit,
			Stakes:      res.Stakes,
		})
	}
	return results
}

// CountArbitrages devuelve cuántas combinaciones son arbitraje.
func CountArbitrages(results []CombinationResult) int {
	n := 0
	for _, r := range results {
		if r.IsArbitrage {
			n++
		}
	}
	return n
}
