package scanner

import (
	"github.com/alejandrodnm/surebet/internal/domain"
)

// FilterConfig contiene los parámetros configurables de filtrado.
type FilterConfig struct {
	// OnlyArbitrage si true, descarta los eventos sin arbitraje.
	OnlyArbitrage bool
	// MinProfit descarta arbitrajes cuyo profit (en el bankroll configurado) es menor.
	MinProfit float64
	// MinMargin descarta arbitrajes con margen menor (p. ej. 0.005 = 0.5%).
	MinMargin float64
}

// DefaultFilterConfig devuelve una configuración que deja pasar todo lo escaneado.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{}
}

// Filter aplica los filtros configurados sobre una lista de oportunidades.
type Filter struct {
	cfg FilterConfig
}

// NewFilter crea un Filter con la configuración dada.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Apply devuelve las oportunidades que pasan todos los filtros.
func (f *Filter) Apply(opps []domain.Opportunity) []domain.Opportunity {
	result := make([]domain.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if f.passes(opp) {
			result = append(result, opp)
		}
	}
	return result
}

// passes devuelve true si la oportunidad supera todos los criterios.
// MinProfit y MinMargin solo se aplican a arbitrajes.
func (f *Filter) passes(opp domain.Opportunity) bool {
	if f.cfg.OnlyArbitrage && !opp.IsArbitrage() {
		return false
	}
	if !opp.IsArbitrage() {
		return true
	}
	if f.cfg.MinProfit > 0 && opp.Result.Profit < f.cfg.MinProfit {
		return false
	}
	if f.cfg.MinMargin > 0 && opp.Result.Margin < f.cfg.MinMargin {
		return false
	}
	return true
}
