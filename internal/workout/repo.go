package workout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog/backend/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrSessionNotFound         = errors.New("workout session not found")
	ErrSessionAlreadyCompleted = errors.New("workout session already completed")
)

type ListSessionsParams struct {
	From *time.Time
	To   *time.Time
	Page int
	Size int
}

const topExercisesLimit = 5

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) StartSession(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.startSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout_session
				(id, workout_name, started_at, notes, created_at)
				VALUES ($1, $2, $3, $4, $5);`,
		session.ID, session.WorkoutName, session.StartedAt, session.Notes, session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("session.id", session.ID.String()))

	return &session, nil
}

func (r *Repo) CompleteSession(ctx context.Context, id uuid.UUID, completedAt time.Time, notes string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.completeSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var session Session
	err = r.db.QueryRow(
		ctx,
		`UPDATE workout_session
			SET completed_at = $2,
				total_duration_minutes = FLOOR(EXTRACT(EPOCH FROM ($2 - started_at)) / 60)::int,
				notes = CASE WHEN $3 <> '' THEN $3 ELSE notes END
			WHERE id = $1 AND completed_at IS NULL
			RETURNING id, workout_name, started_at, completed_at, total_duration_minutes, notes, created_at;`,
		id, completedAt, notes,
	).Scan(
		&session.ID, &session.WorkoutName, &session.StartedAt,
		&session.CompletedAt, &session.TotalDurationMinutes, &session.Notes, &session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetSession(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSessionAlreadyCompleted
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *Repo) GetSession(ctx context.Context, id uuid.UUID) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.getSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var session Session
	err = r.db.QueryRow(
		ctx,
		`SELECT id, workout_name, started_at, completed_at, total_duration_minutes, notes, created_at
			FROM workout_session
			WHERE id = $1;`,
		id,
	).Scan(
		&session.ID, &session.WorkoutName, &session.StartedAt,
		&session.CompletedAt, &session.TotalDurationMinutes, &session.Notes, &session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *Repo) ListSessions(ctx context.Context, params ListSessionsParams) (_ []Session, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.listSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	from, to := timeRange(params.From, params.To)

	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout_session WHERE started_at >= $1 AND started_at <= $2;`,
		from, to,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	rows, err := r.db.Query(
		ctx,
		`SELECT id, workout_name, started_at, completed_at, total_duration_minutes, notes, created_at
			FROM workout_session
			WHERE started_at >= $1 AND started_at <= $2
			ORDER BY started_at DESC
			LIMIT $3 OFFSET $4;`,
		from, to, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(
			&session.ID, &session.WorkoutName, &session.StartedAt,
			&session.CompletedAt, &session.TotalDurationMinutes, &session.Notes, &session.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("rows scan: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *Repo) AddSet(ctx context.Context, set Set) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.addSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_set
				(session_id, exercise_name, set_number, reps, weight_kg, rest_seconds, rpe, notes, created_at)
				VALUES (
					$1, $2,
					CASE WHEN $3 > 0 THEN $3 ELSE (
						SELECT COALESCE(MAX(set_number), 0) + 1
							FROM workout_set
							WHERE session_id = $1 AND exercise_name = $2
					) END,
					$4, $5, $6, $7, $8, $9
				)
			RETURNING id, set_number;`,
		set.SessionID, set.ExerciseName, set.SetNumber,
		set.Reps, set.WeightKg, set.RestSeconds, set.RPE, set.Notes, set.CreatedAt,
	).Scan(&set.ID, &set.SetNumber)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("set.id", set.ID))

	return &set, nil
}

func (r *Repo) SessionSets(ctx context.Context, sessionID uuid.UUID) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.sessionSets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT ws.id, ws.session_id, ws.exercise_name, ws.set_number, ws.reps, ws.weight_kg,
				ws.rest_seconds, ws.rpe, ws.notes, ws.created_at, s.started_at
			FROM workout_set ws
			JOIN workout_session s ON s.id = ws.session_id
			WHERE ws.session_id = $1
			ORDER BY ws.created_at ASC;`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSets(rows)
}

// ExerciseHistory returns the most recent sets of an exercise, newest first.
func (r *Repo) ExerciseHistory(ctx context.Context, exerciseName string, limit int) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.exerciseHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT ws.id, ws.session_id, ws.exercise_name, ws.set_number, ws.reps, ws.weight_kg,
				ws.rest_seconds, ws.rpe, ws.notes, ws.created_at, s.started_at
			FROM workout_set ws
			JOIN workout_session s ON s.id = ws.session_id
			WHERE ws.exercise_name = $1
			ORDER BY ws.created_at DESC
			LIMIT $2;`,
		exerciseName, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSets(rows)
}

// ExerciseHistorySince returns sets of an exercise whose parent session started
// at or after the given time, ascending by session start. This is the input
// shape the progress analyzer expects.
func (r *Repo) ExerciseHistorySince(ctx context.Context, exerciseName string, since time.Time) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.exerciseHistorySince")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT ws.id, ws.session_id, ws.exercise_name, ws.set_number, ws.reps, ws.weight_kg,
				ws.rest_seconds, ws.rpe, ws.notes, ws.created_at, s.started_at
			FROM workout_set ws
			JOIN workout_session s ON s.id = ws.session_id
			WHERE ws.exercise_name = $1 AND s.started_at >= $2
			ORDER BY s.started_at ASC, ws.created_at ASC;`,
		exerciseName, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSets(rows)
}

func (r *Repo) Summary(ctx context.Context) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var summary Summary
	if err := r.db.QueryRow(
		ctx,
		`SELECT
				COUNT(*),
				COUNT(completed_at),
				COALESCE(AVG(total_duration_minutes), 0)
			FROM workout_session;`,
	).Scan(&summary.TotalSessions, &summary.CompletedSessions, &summary.AvgDurationMinutes); err != nil {
		return nil, fmt.Errorf("session aggregates: %w", err)
	}

	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout_set;`,
	).Scan(&summary.TotalSets); err != nil {
		return nil, fmt.Errorf("count sets: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT exercise_name, COUNT(*) AS sets
			FROM workout_set
			GROUP BY exercise_name
			ORDER BY sets DESC, exercise_name
			LIMIT $1;`,
		topExercisesLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ec ExerciseCount
		if err := rows.Scan(&ec.ExerciseName, &ec.Sets); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		summary.TopExercises = append(summary.TopExercises, ec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &summary, nil
}

func scanSets(rows pgx.Rows) ([]Set, error) {
	var sets []Set
	for rows.Next() {
		var set Set
		if err := rows.Scan(
			&set.ID, &set.SessionID, &set.ExerciseName, &set.SetNumber, &set.Reps, &set.WeightKg,
			&set.RestSeconds, &set.RPE, &set.Notes, &set.CreatedAt, &set.SessionStartedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

func timeRange(from, to *time.Time) (time.Time, time.Time) {
	fromTime := time.Unix(0, 0)
	toTime := time.Now().Add(24 * time.Hour)
	if from != nil {
		fromTime = *from
	}
	if to != nil {
		toTime = *to
	}
	return fromTime, toTime
}
