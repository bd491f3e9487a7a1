package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/liftlog/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEntryNotFound = errors.New("catalog entry not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddEntry(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.addEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO exercise_catalog
				(name, category, primary_muscles, secondary_muscles, rest_time_seconds, instructions, tips, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id;`,
		entry.Name, entry.Category, entry.PrimaryMuscles, entry.SecondaryMuscles,
		entry.RestTimeSeconds, entry.Instructions, entry.Tips, entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("catalog.entry.id", id))

	entry.ID = id
	return &entry, nil
}

func (r *Repo) GetEntry(ctx context.Context, name string) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.getEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var entry Entry
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, category, primary_muscles, secondary_muscles, rest_time_seconds, instructions, tips, created_at
			FROM exercise_catalog
			WHERE name = $1;`,
		name,
	).Scan(
		&entry.ID, &entry.Name, &entry.Category, &entry.PrimaryMuscles, &entry.SecondaryMuscles,
		&entry.RestTimeSeconds, &entry.Instructions, &entry.Tips, &entry.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *Repo) ListEntries(ctx context.Context) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.listEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, category, primary_muscles, secondary_muscles, rest_time_seconds, instructions, tips, created_at
			FROM exercise_catalog
			ORDER BY name;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID, &entry.Name, &entry.Category, &entry.PrimaryMuscles, &entry.SecondaryMuscles,
			&entry.RestTimeSeconds, &entry.Instructions, &entry.Tips, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Names returns the distinct exercise names known to the catalog, the
// candidate pool for the resolver.
func (r *Repo) Names(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.names")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT name FROM exercise_catalog ORDER BY name;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return names, nil
}

func (r *Repo) AddMedia(ctx context.Context, media Media) (_ *Media, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.addMedia")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO exercise_media
				(exercise_name, media_type, url, thumbnail_url, created_at)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		media.ExerciseName, media.Type, media.URL, media.ThumbnailURL, media.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	media.ID = id
	return &media, nil
}

// MediaForExercise returns media for the exact exercise name, newest first.
func (r *Repo) MediaForExercise(ctx context.Context, exerciseName string) (_ []Media, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.mediaForExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, exercise_name, media_type, url, thumbnail_url, created_at
			FROM exercise_media
			WHERE exercise_name = $1
			ORDER BY created_at DESC;`,
		exerciseName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []Media
	for rows.Next() {
		var m Media
		if err := rows.Scan(&m.ID, &m.ExerciseName, &m.Type, &m.URL, &m.ThumbnailURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return media, nil
}
