package workout

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type repoMock struct {
	sessions map[uuid.UUID]*Session
	sets     []Set
	nextID   int
}

func NewMockWorkoutRepo() *repoMock {
	return &repoMock{
		sessions: make(map[uuid.UUID]*Session),
		nextID:   1,
	}
}

func (r *repoMock) StartSession(_ context.Context, session Session) (*Session, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.sessions[session.ID] = &session
	return &session, nil
}

func (r *repoMock) CompleteSession(_ context.Context, id uuid.UUID, completedAt time.Time, notes string) (*Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.CompletedAt != nil {
		return nil, ErrSessionAlreadyCompleted
	}
	session.CompletedAt = &completedAt
	durationMinutes := int(completedAt.Sub(session.StartedAt).Minutes())
	session.TotalDurationMinutes = &durationMinutes
	if notes != "" {
		session.Notes = notes
	}
	return session, nil
}

func (r *repoMock) GetSession(_ context.Context, id uuid.UUID) (*Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *repoMock) ListSessions(_ context.Context, params ListSessionsParams) ([]Session, int, error) {
	var sessions []Session
	for _, s := range r.sessions {
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	total := len(sessions)

	offset := (params.Page - 1) * params.Size
	if offset >= len(sessions) {
		return nil, total, nil
	}
	end := offset + params.Size
	if end > len(sessions) {
		end = len(sessions)
	}
	return sessions[offset:end], total, nil
}

func (r *repoMock) AddSet(_ context.Context, set Set) (*Set, error) {
	session, ok := r.sessions[set.SessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	set.ID = r.nextID
	r.nextID++
	if set.SetNumber == 0 {
		maxSetNumber := 0
		for _, s := range r.sets {
			if s.SessionID == set.SessionID && s.ExerciseName == set.ExerciseName && s.SetNumber > maxSetNumber {
				maxSetNumber = s.SetNumber
			}
		}
		set.SetNumber = maxSetNumber + 1
	}
	set.SessionStartedAt = session.StartedAt
	r.sets = append(r.sets, set)
	return &set, nil
}

func (r *repoMock) SessionSets(_ context.Context, sessionID uuid.UUID) ([]Set, error) {
	var sets []Set
	for _, s := range r.sets {
		if s.SessionID == sessionID {
			sets = append(sets, s)
		}
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].CreatedAt.Before(sets[j].CreatedAt)
	})
	return sets, nil
}

func (r *repoMock) ExerciseHistory(_ context.Context, exerciseName string, limit int) ([]Set, error) {
	var sets []Set
	for _, s := range r.sets {
		if s.ExerciseName == exerciseName {
			sets = append(sets, s)
		}
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].CreatedAt.After(sets[j].CreatedAt)
	})
	if len(sets) > limit {
		sets = sets[:limit]
	}
	return sets, nil
}

func (r *repoMock) ExerciseHistorySince(_ context.Context, exerciseName string, since time.Time) ([]Set, error) {
	var sets []Set
	for _, s := range r.sets {
		if s.ExerciseName == exerciseName && !s.SessionStartedAt.Before(since) {
			sets = append(sets, s)
		}
	}
	sort.Slice(sets, func(i, j int) bool {
		if sets[i].SessionStartedAt.Equal(sets[j].SessionStartedAt) {
			return sets[i].CreatedAt.Before(sets[j].CreatedAt)
		}
		return sets[i].SessionStartedAt.Before(sets[j].SessionStartedAt)
	})
	return sets, nil
}

func (r *repoMock) Summary(context.Context) (*Summary, error) {
	summary := &Summary{
		TotalSessions: len(r.sessions),
		TotalSets:     len(r.sets),
	}

	var durationSum int
	for _, s := range r.sessions {
		if s.CompletedAt != nil {
			summary.CompletedSessions++
			if s.TotalDurationMinutes != nil {
				durationSum += *s.TotalDurationMinutes
			}
		}
	}
	if summary.CompletedSessions > 0 {
		summary.AvgDurationMinutes = float64(durationSum) / float64(summary.CompletedSessions)
	}

	setCounts := make(map[string]int)
	for _, s := range r.sets {
		setCounts[s.ExerciseName]++
	}
	for name, count := range setCounts {
		summary.TopExercises = append(summary.TopExercises, ExerciseCount{ExerciseName: name, Sets: count})
	}
	sort.Slice(summary.TopExercises, func(i, j int) bool {
		if summary.TopExercises[i].Sets == summary.TopExercises[j].Sets {
			return summary.TopExercises[i].ExerciseName < summary.TopExercises[j].ExerciseName
		}
		return summary.TopExercises[i].Sets > summary.TopExercises[j].Sets
	})
	if len(summary.TopExercises) > topExercisesLimit {
		summary.TopExercises = summary.TopExercises[:topExercisesLimit]
	}

	return summary, nil
}
