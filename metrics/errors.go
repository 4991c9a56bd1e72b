package metrics

import "errors"

// Sentinel errors returned by instruments and builders. Construction errors
// surface at Build() time; per-call errors surface from mutation methods.
var (
	ErrNonFiniteValue    = errors.New("metrics: value must be finite")
	ErrNegativeDelta     = errors.New("metrics: counter delta must be non-negative")
	ErrNoBucketStrategy  = errors.New("metrics: histogram requires a bucket strategy before Build")
	ErrEmptyBounds       = errors.New("metrics: histogram requires at least one bucket bound")
	ErrInvalidBounds     = errors.New("metrics: histogram bounds must be finite and strictly ascending")
	ErrInvalidQuantile   = errors.New("metrics: quantiles must lie in [0,1]")
	ErrEmptyIdentity     = errors.New("metrics: id and name must be non-empty")
	ErrInvalidBucketSpec = errors.New("metrics: invalid bucket generation parameters")
)
