package distance

import "github.com/rotisserie/eris"

// Sentinel errors returned by the dispatcher. Match with eris.Is.
var (
	ErrUnknownMetric = eris.New("distance: no such distance metric")
	ErrShape         = eris.New("distance: input shape mismatch")
	ErrMissingInput  = eris.New("distance: missing input")
	ErrInvalidInput  = eris.New("distance: invalid input")
)
