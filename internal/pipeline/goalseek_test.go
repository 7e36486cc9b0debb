package pipeline

import (
	"testing"

	"usagelog/internal"
)

func TestGoalSeek(t *testing.T) {
	tests := []struct {
		name          string
		available     float64
		usage         float64
		targetRate    float64
		wantOutcome   internal.GoalSeekOutcome
		wantTarget    float64
		wantMagnitude float64
	}{
		{"deficit", 40, 20, 70, internal.GoalDeficit, 28, 8},
		{"surplus", 40, 35, 70, internal.GoalSurplus, 28, 7},
		{"exactly on target", 40, 20, 50, internal.GoalSurplus, 20, 0},
		{"no capacity", 0, 0, 70, internal.GoalUnavailable, 0, 0},
		{"negative capacity", -2, 0, 70, internal.GoalSurplus, -1.4, 1.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GoalSeek(tt.available, tt.usage, tt.targetRate)
			if got.Outcome != tt.wantOutcome {
				t.Fatalf("outcome = %s, want %s", got.Outcome, tt.wantOutcome)
			}
			if !approx(got.TargetUsageHours, tt.wantTarget) {
				t.Errorf("target hours = %v, want %v", got.TargetUsageHours, tt.wantTarget)
			}
			if !approx(got.Magnitude, tt.wantMagnitude) {
				t.Errorf("magnitude = %v, want %v", got.Magnitude, tt.wantMagnitude)
			}
		})
	}
}

// A zero-magnitude surplus and the no-capacity state must stay distinct
// outcomes even though both report zero hours of slack.
func TestGoalSeekZeroMagnitudeIsNotUnavailable(t *testing.T) {
	onTarget := GoalSeek(40, 20, 50)
	empty := GoalSeek(0, 0, 50)

	if onTarget.Outcome == empty.Outcome {
		t.Fatalf("both outcomes = %s, want distinct", onTarget.Outcome)
	}
	if onTarget.Magnitude != 0 || empty.Magnitude != 0 {
		t.Errorf("magnitudes = %v / %v, want 0 / 0", onTarget.Magnitude, empty.Magnitude)
	}
}
