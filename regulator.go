package qdispatch

/*
Regulator is implemented by the components that sit in front of a processor
and decide whether a call may go through. They watch dispatch Metrics, say
whether the next call must be held back, and can be asked to return to
their normal operating state.

Implementations in this package:
  - CircuitBreaker: stops calling a processor that keeps failing
  - RateLimiter: caps the rate of calls reaching a processor
*/
type Regulator interface {
	// Observe hands the regulator the current dispatch metrics.
	Observe(metrics *Metrics)

	// Limit reports whether the next call should be held back.
	Limit() bool

	// Renormalize attempts to return the regulator to its normal state.
	Renormalize()
}
