package analytics

import (
	"time"

	"github.com/liftlog/backend/internal/workout"
)

const recentSetsLimit = 5

// Progress summarizes the recorded history of one exercise over a trailing
// window of days.
type Progress struct {
	ExerciseName string  `json:"exerciseName"`
	TotalSets    int     `json:"totalSets"`
	MaxWeight    float64 `json:"maxWeight"`
	MaxReps      int     `json:"maxReps"`
	TotalVolume  float64 `json:"totalVolume"`
	// AvgRPE is nil when no set in the window carries an RPE
	AvgRPE *float64 `json:"avgRpe,omitempty"`
	// WeightTrend compares the mean weight of the second half of the window
	// against the first half, positive means the load went up
	WeightTrend      float64       `json:"weightTrend"`
	RecentSets       []workout.Set `json:"recentSets"`
	WorkoutFrequency int           `json:"workoutFrequency"`
	WindowDays       int           `json:"windowDays,omitempty"`
}

// ComputeProgress reduces a chronologically ordered list of sets, ascending by
// parent session start, into a Progress summary. Nil means no data, which is
// an expected outcome and not an error.
func ComputeProgress(exerciseName string, sets []workout.Set) *Progress {
	if len(sets) == 0 {
		return nil
	}

	progress := &Progress{
		ExerciseName: exerciseName,
		TotalSets:    len(sets),
	}

	var rpeSum, rpeCount int
	trainingDays := make(map[string]struct{})
	for _, set := range sets {
		if set.WeightKg > progress.MaxWeight {
			progress.MaxWeight = set.WeightKg
		}
		if set.Reps > progress.MaxReps {
			progress.MaxReps = set.Reps
		}
		progress.TotalVolume += set.Volume()

		if set.RPE != nil {
			rpeSum += *set.RPE
			rpeCount++
		}

		trainingDays[set.SessionStartedAt.UTC().Format(time.DateOnly)] = struct{}{}
	}

	if rpeCount > 0 {
		avgRPE := float64(rpeSum) / float64(rpeCount)
		progress.AvgRPE = &avgRPE
	}

	progress.WorkoutFrequency = len(trainingDays)
	progress.WeightTrend = weightTrend(sets)

	recentFrom := len(sets) - recentSetsLimit
	if recentFrom < 0 {
		recentFrom = 0
	}
	progress.RecentSets = sets[recentFrom:]

	return progress
}

// weightTrend splits the sets at the midpoint and compares mean weights of the
// two halves. An empty half contributes a mean of 0, so a single set reads as
// a positive trend of its own weight.
func weightTrend(sets []workout.Set) float64 {
	mid := len(sets) / 2
	return meanWeight(sets[mid:]) - meanWeight(sets[:mid])
}

func meanWeight(sets []workout.Set) float64 {
	if len(sets) == 0 {
		return 0
	}
	var sum float64
	for _, set := range sets {
		sum += set.WeightKg
	}
	return sum / float64(len(sets))
}
