package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/liftlog/backend/internal/telemetry/tracing"
	"github.com/liftlog/backend/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

const DefaultWindowDays = 30

type historyRepo interface {
	ExerciseHistorySince(ctx context.Context, exerciseName string, since time.Time) ([]workout.Set, error)
}

// Analyzer fetches the trailing window of an exercise history and reduces it
// to a Progress summary.
type Analyzer struct {
	repo historyRepo
}

func NewAnalyzer(repo historyRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

func (a *Analyzer) ExerciseProgress(ctx context.Context, exerciseName string, days int) (_ *Progress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.exerciseProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if days <= 0 {
		days = DefaultWindowDays
	}
	span.SetAttributes(
		attribute.String("exercise.name", exerciseName),
		attribute.Int("window.days", days),
	)

	since := time.Now().UTC().AddDate(0, 0, -days)
	sets, err := a.repo.ExerciseHistorySince(ctx, exerciseName, since)
	if err != nil {
		return nil, fmt.Errorf("exercise history since %s: %w", since.Format(time.DateOnly), err)
	}

	progress := ComputeProgress(exerciseName, sets)
	if progress == nil {
		return nil, nil
	}
	progress.WindowDays = days

	return progress, nil
}
