package pipeline

import (
	"math"

	"usagelog/internal"
)

// GoalSeek inverts the utilization rate: how many usage hours separate the
// actual figures from a target rate. The three outcomes are mutually
// exclusive; zero actual available hours is its own state because no rate is
// meaningful there, and must not be read as a deficit of zero.
func GoalSeek(actualAvailable, actualUsage, targetRate float64) internal.GoalSeekResult {
	target := actualAvailable * targetRate / 100
	needed := target - actualUsage

	result := internal.GoalSeekResult{
		TargetRate:       targetRate,
		TargetUsageHours: target,
		NeededHours:      needed,
		Magnitude:        math.Abs(needed),
	}

	switch {
	case needed > 0:
		result.Outcome = internal.GoalDeficit
	case actualAvailable == 0:
		result.Outcome = internal.GoalUnavailable
	default:
		result.Outcome = internal.GoalSurplus
	}
	return result
}
