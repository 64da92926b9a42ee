// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package dispatch

import (
	"math/rand"
	"time"
)

// jitterFraction is the spread applied around the configured retry delay.
const jitterFraction = 0.2

// jitteredDelay spreads the base retry delay by a uniform draw in
// [-20%, +20%], never going negative. The random source is injected so the
// draw can be pinned in tests.
func jitteredDelay(base time.Duration, randFloat func() float64) time.Duration {
	if base <= 0 {
		return 0
	}

	// Map [0,1) onto [-jitterFraction, +jitterFraction).
	spread := (randFloat()*2 - 1) * jitterFraction
	delay := time.Duration(float64(base) * (1 + spread))
	if delay < 0 {
		return 0
	}
	return delay
}

// defaultRandFloat is the production jitter source.
func defaultRandFloat() float64 {
	return rand.Float64()
}
