package domain

import "errors"

var (
	// ErrInsufficientData: algún outcome no tiene ninguna cuota positiva.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateInput: el vector de cuotas no tiene ninguna entrada positiva.
	ErrDegenerateInput = errors.New("degenerate odds vector")
)
