package simulation

import "errors"

var (
	// ErrInvalidConfiguration reports a non-positive horizon or trial count.
	ErrInvalidConfiguration = errors.New("simulation: invalid configuration")

	// ErrShape reports a path matrix that is not a proper (n_sims, months) grid.
	ErrShape = errors.New("simulation: malformed path matrix")
)
