package rate_limiter

import (
	"fmt"
	"strings"

	"golang.org/x/time/rate"
)

// Definition describes a limiter: a token bucket (FillRate per second, BucketSize burst),
// a concurrency cap, or both. A zero value disables that half of the limiter.
type Definition struct {
	Name           string
	FillRate       rate.Limit
	BucketSize     int64
	MaxConcurrency int64
}

func (d *Definition) String() string {
	var parts []string
	if d.FillRate > 0 {
		parts = append(parts, fmt.Sprintf("Limit(/s): %v, Burst: %d", d.FillRate, d.BucketSize))
	}
	if d.MaxConcurrency > 0 {
		parts = append(parts, fmt.Sprintf("MaxConcurrency: %d", d.MaxConcurrency))
	}
	if len(parts) == 0 {
		return "unlimited"
	}
	return strings.Join(parts, " ")
}

func (d *Definition) Validate() []string {
	var validationErrors []string
	if d.Name == "" {
		validationErrors = append(validationErrors, "rate limiter definition must specify a name")
	}
	if d.FillRate < 0 {
		validationErrors = append(validationErrors, fmt.Sprintf("rate limiter '%s': fill rate must not be negative", d.Name))
	}
	if d.FillRate > 0 && d.BucketSize < 1 {
		validationErrors = append(validationErrors, fmt.Sprintf("rate limiter '%s': bucket size must be at least 1 when a fill rate is set", d.Name))
	}
	if d.MaxConcurrency < 0 {
		validationErrors = append(validationErrors, fmt.Sprintf("rate limiter '%s': max concurrency must not be negative", d.Name))
	}
	return validationErrors
}
