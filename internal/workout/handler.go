package workout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/liftlog/backend/internal/telemetry/metrics"
	"github.com/liftlog/backend/internal/telemetry/tracing"
	"github.com/liftlog/backend/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type workoutRepo interface {
	StartSession(ctx context.Context, session Session) (*Session, error)
	CompleteSession(ctx context.Context, id uuid.UUID, completedAt time.Time, notes string) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	ListSessions(ctx context.Context, params ListSessionsParams) (_ []Session, total int, err error)
	AddSet(ctx context.Context, set Set) (*Set, error)
	SessionSets(ctx context.Context, sessionID uuid.UUID) ([]Set, error)
	ExerciseHistory(ctx context.Context, exerciseName string, limit int) ([]Set, error)
	Summary(ctx context.Context) (*Summary, error)
}

const (
	defaultPageSize       = 20
	defaultHistoryLimit   = 50
	maxExerciseNameLength = 200
)

type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

type SessionSetsResponse struct {
	Sets  []Set `json:"sets"`
	Total int   `json:"total"`
}

type CompleteSessionRequest struct {
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type Handler struct {
	repo           workoutRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo workoutRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.startSession")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Errorf("start session, unmarshal json params: %s", err)
		http.Error(w, "start session failed", http.StatusBadRequest)
		return
	}
	if session.WorkoutName == "" {
		http.Error(w, "error, workout name empty", http.StatusBadRequest)
		return
	}

	now := time.Now()
	if session.StartedAt.IsZero() {
		session.StartedAt = now
	}
	session.CreatedAt = now
	session.CompletedAt = nil
	session.TotalDurationMinutes = nil

	started, err := handler.repo.StartSession(ctx, session)
	if err != nil {
		log.Errorf("start session: %s", err)
		http.Error(w, "start session failed", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterSessionsStarted.Inc()

	startedBytes, err := json.Marshal(started)
	if err != nil {
		log.Errorf("marshal started session: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, startedBytes, http.StatusCreated)
}

func (handler *Handler) HandleCompleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.completeSession")
	defer span.End()

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "error, invalid session id", http.StatusBadRequest)
		return
	}

	var req CompleteSessionRequest
	if r.Body != nil {
		// body is optional, an empty one means "complete now"
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			log.Errorf("complete session, unmarshal json params: %s", err)
			http.Error(w, "complete session failed", http.StatusBadRequest)
			return
		}
	}

	completedAt := time.Now()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	completed, err := handler.repo.CompleteSession(ctx, id, completedAt, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, ErrSessionAlreadyCompleted):
			http.Error(w, "session already completed", http.StatusConflict)
		default:
			log.Errorf("complete session [%s]: %s", id, err)
			http.Error(w, "complete session failed", http.StatusInternalServerError)
		}
		return
	}

	handler.metricsManager.CounterSessionsCompleted.Inc()

	completedBytes, err := json.Marshal(completed)
	if err != nil {
		log.Errorf("marshal completed session: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, completedBytes, http.StatusOK)
}

func (handler *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.listSessions")
	defer span.End()

	page, size := pageAndSize(r)

	sessions, total, err := handler.repo.ListSessions(ctx, ListSessionsParams{
		Page: page,
		Size: size,
	})
	if err != nil {
		log.Errorf("list sessions: %s", err)
		http.Error(w, "list sessions failed", http.StatusInternalServerError)
		return
	}

	resp := ListSessionsResponse{
		Sessions: sessions,
		Total:    total,
	}
	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal sessions list: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.addSet")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var set Set
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Errorf("add set, unmarshal json params: %s", err)
		http.Error(w, "add set failed", http.StatusBadRequest)
		return
	}

	switch {
	case set.SessionID == uuid.Nil:
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return
	case set.ExerciseName == "" || len(set.ExerciseName) > maxExerciseNameLength:
		http.Error(w, "error, invalid exercise name", http.StatusBadRequest)
		return
	case set.Reps <= 0:
		http.Error(w, "error, reps must be positive", http.StatusBadRequest)
		return
	case set.WeightKg < 0:
		http.Error(w, "error, weight must not be negative", http.StatusBadRequest)
		return
	case set.RPE != nil && (*set.RPE < 1 || *set.RPE > 10):
		http.Error(w, "error, rpe must be between 1 and 10", http.StatusBadRequest)
		return
	}

	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now()
	}

	added, err := handler.repo.AddSet(ctx, set)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("add set: %s", err)
		http.Error(w, "add set failed", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterSetsAdded.Inc()

	addedBytes, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added set: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedBytes, http.StatusCreated)
}

func (handler *Handler) HandleSessionSets(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.sessionSets")
	defer span.End()

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "error, invalid session id", http.StatusBadRequest)
		return
	}

	if _, err := handler.repo.GetSession(ctx, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("get session [%s]: %s", id, err)
		http.Error(w, "get session failed", http.StatusInternalServerError)
		return
	}

	sets, err := handler.repo.SessionSets(ctx, id)
	if err != nil {
		log.Errorf("get session sets [%s]: %s", id, err)
		http.Error(w, "get session sets failed", http.StatusInternalServerError)
		return
	}

	resp := SessionSetsResponse{
		Sets:  sets,
		Total: len(sets),
	}
	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal session sets: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.exerciseHistory")
	defer span.End()

	vars := mux.Vars(r)
	name := vars["name"]
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	limit := defaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit <= 0 {
			http.Error(w, "error, invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsedLimit
	}

	sets, err := handler.repo.ExerciseHistory(ctx, name, limit)
	if err != nil {
		log.Errorf("exercise history [%s]: %s", name, err)
		http.Error(w, "exercise history failed", http.StatusInternalServerError)
		return
	}

	resp := SessionSetsResponse{
		Sets:  sets,
		Total: len(sets),
	}
	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal exercise history: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.summary")
	defer span.End()

	summary, err := handler.repo.Summary(ctx)
	if err != nil {
		log.Errorf("workout summary: %s", err)
		http.Error(w, "workout summary failed", http.StatusInternalServerError)
		return
	}

	summaryBytes, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("marshal workout summary: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, summaryBytes, http.StatusOK)
}

func pageAndSize(r *http.Request) (page, size int) {
	page, size = 1, defaultPageSize
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		if parsed, err := strconv.Atoi(sizeStr); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return page, size
}
