package domain

import (
	"bytes"
	"encoding/json"
)

// Price es una cuota decimal opcional. El valor cero es "sin precio":
// la casa no ofrece ese outcome.
type Price struct {
	value float64
	set   bool
}

// NewPrice crea un precio presente.
func NewPrice(v float64) Price {
	return Price{value: v, set: true}
}

// NoPrice devuelve un precio ausente.
func NoPrice() Price {
	return Price{}
}

// Get devuelve la cuota y true solo si está presente y es > 0.
func (p Price) Get() (float64, bool) {
	if !p.set || p.value <= 0 {
		return 0, false
	}
	return p.value, true
}

// Present indica si el feed envió un valor, aunque no sea utilizable.
func (p Price) Present() bool {
	return p.set
}

// MarshalJSON codifica el precio ausente como null.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON acepta null como precio ausente.
func (p *Price) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Price{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = NewPrice(v)
	return nil
}

// BookmakerOdds son las cuotas de una casa para un evento, un campo por outcome.
type BookmakerOdds struct {
	Site string `json:"site"`
	Home Price  `json:"price_home"`
	Draw Price  `json:"price_draw"`
	Away Price  `json:"price_away"`
}

// PriceFor devuelve el precio de la casa para el outcome dado.
func (b BookmakerOdds) PriceFor(o Outcome) Price {
	switch o {
	case Home:
		return b.Home
	case Draw:
		return b.Draw
	case Away:
		return b.Away
	default:
		return NoPrice()
	}
}

// Quote es el precio de una casa para un outcome concreto.
type Quote struct {
	Bookmaker string
	Outcome   Outcome
	Price     Price
}
