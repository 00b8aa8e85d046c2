package smoother

import "errors"

// Every recoverable fault the engine can hit is one of these five classes.
// GetModifiedBiome never returns an error or panics on account of one:
// faults are absorbed, logged at most once per class per interval, and the
// call falls back to vanilla. Tests and the rate limiter key off these
// sentinels with errors.Is rather than matching log text.
var (
	ErrValidation        = errors.New("smoother: biome failed validity check")
	ErrSampler           = errors.New("smoother: sampler call failed")
	ErrHeight            = errors.New("smoother: surface height lookup failed")
	ErrDispatcherTimeout = errors.New("smoother: flood fill did not complete before the deadline")
	ErrCacheValidity     = errors.New("smoother: cache entry failed a validity check on read")
)
