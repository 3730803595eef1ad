package httpx

import (
	"math/rand"
	"time"
)

// IsRetryableHTTPStatus reports whether a request that got this status is
// worth repeating: timeouts, rate limits, and server-side failures.
func IsRetryableHTTPStatus(code int) bool {
	switch {
	case code == 408, code == 429:
		return true
	case code >= 500 && code <= 599:
		return true
	}
	return false
}

// jitterFraction spreads retry sleeps by +-20% so concurrent callers do not
// retry in lockstep.
const jitterFraction = 0.2

func JitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	spread := float64(base) * jitterFraction
	low := float64(base) - spread
	return time.Duration(low + rand.Float64()*2*spread)
}
