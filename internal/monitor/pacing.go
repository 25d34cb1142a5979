package monitor

import "time"

// adjustPause implements the adaptive backpressure loop (§4.7/§5):
// multiply by factor on an empty block, divide on a nonempty block,
// clamped to [lower, upper].
func adjustPause(current time.Duration, factor float64, empty bool, lower, upper time.Duration) time.Duration {
	var next time.Duration
	if empty {
		next = time.Duration(float64(current) * factor)
	} else {
		next = time.Duration(float64(current) / factor)
	}

	if next < lower {
		next = lower
	}
	if next > upper {
		next = upper
	}
	return next
}
