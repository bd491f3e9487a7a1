package workout

import (
	"time"

	"github.com/google/uuid"
)

// Session is a single gym visit. It gets completed explicitly, the duration is
// derived from the start and completion times.
type Session struct {
	ID                   uuid.UUID  `json:"id"`
	WorkoutName          string     `json:"workoutName"`
	StartedAt            time.Time  `json:"startedAt"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	TotalDurationMinutes *int       `json:"totalDurationMinutes,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// Set is one recorded set of an exercise within a session. SessionStartedAt
// comes from the parent session and drives the trailing-window analytics.
type Set struct {
	ID               int       `json:"id"`
	SessionID        uuid.UUID `json:"sessionId"`
	ExerciseName     string    `json:"exerciseName"`
	SetNumber        int       `json:"setNumber"`
	Reps             int       `json:"reps"`
	WeightKg         float64   `json:"weightKg"`
	RestSeconds      *int      `json:"restSeconds,omitempty"`
	RPE              *int      `json:"rpe,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	SessionStartedAt time.Time `json:"sessionStartedAt"`
}

// Volume is the standard training-load proxy for a set.
func (s Set) Volume() float64 {
	return s.WeightKg * float64(s.Reps)
}

type ExerciseCount struct {
	ExerciseName string `json:"exerciseName"`
	Sets         int    `json:"sets"`
}

// Summary is the all-time overview of recorded training.
type Summary struct {
	TotalSessions      int             `json:"totalSessions"`
	CompletedSessions  int             `json:"completedSessions"`
	AvgDurationMinutes float64         `json:"avgDurationMinutes"`
	TotalSets          int             `json:"totalSets"`
	TopExercises       []ExerciseCount `json:"topExercises"`
}
