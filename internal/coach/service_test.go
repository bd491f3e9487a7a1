package coach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liftlog/backend/internal/analytics"
	"github.com/liftlog/backend/internal/telemetry/metrics"
	"github.com/liftlog/backend/internal/workout"

	"github.com/go-redis/redismock/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply        string
	err          error
	lastContents []Content
	lastCfg      *GenerationConfig
	calls        int
}

func (g *stubGenerator) Generate(_ context.Context, contents []Content, cfg *GenerationConfig) (string, error) {
	g.calls++
	g.lastContents = contents
	g.lastCfg = cfg
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type workoutSeeder interface {
	StartSession(ctx context.Context, session workout.Session) (*workout.Session, error)
	AddSet(ctx context.Context, set workout.Set) (*workout.Set, error)
}

type coachTestDeps struct {
	service   *Service
	gemini    *stubGenerator
	repo      workoutSeeder
	redisMock redismock.ClientMock
}

func newTestService(t *testing.T, gemini *stubGenerator) coachTestDeps {
	t.Helper()

	workoutRepo := workout.NewMockWorkoutRepo()
	db, redisMock := redismock.NewClientMock()

	service := NewService(
		gemini,
		analytics.NewAnalyzer(workoutRepo),
		workoutRepo,
		NewChatHistory(db),
		metrics.NewTestManager(),
	)

	return coachTestDeps{
		service:   service,
		gemini:    gemini,
		repo:      workoutRepo,
		redisMock: redisMock,
	}
}

// seedRecentSets records one session with the given weights, one set per day
// counting back from now.
func seedRecentSets(t *testing.T, deps coachTestDeps, exerciseName string, weights ...float64) {
	t.Helper()

	ctx := t.Context()
	for i, weight := range weights {
		startedAt := time.Now().UTC().AddDate(0, 0, -(len(weights) - 1 - i))
		session, err := deps.repo.StartSession(ctx, workout.Session{
			ID:          uuid.New(),
			WorkoutName: "push day",
			StartedAt:   startedAt,
		})
		require.NoError(t, err)

		_, err = deps.repo.AddSet(ctx, workout.Set{
			SessionID:    session.ID,
			ExerciseName: exerciseName,
			Reps:         8,
			WeightKg:     weight,
			RPE:          intPtr(7),
		})
		require.NoError(t, err)
	}
}

func TestService_Recommend(t *testing.T) {
	gemini := &stubGenerator{
		reply: "```json\n" + `{
			"exerciseName": "ignored",
			"suggestedWeight": 62.5,
			"suggestedReps": "8-10",
			"reasoning": "steady gains",
			"progressNotes": "nice curve",
			"motivationalMessage": "push on"
		}` + "\n```",
	}
	deps := newTestService(t, gemini)
	seedRecentSets(t, deps, "press banca", 55, 57.5, 60)

	rec, err := deps.service.Recommend(t.Context(), "press banca")
	require.NoError(t, err)

	assert.Equal(t, "press banca", rec.ExerciseName)
	assert.InDelta(t, 62.5, rec.SuggestedWeight, 0.001)
	assert.Equal(t, "8-10", rec.SuggestedReps)
	// 3 sets over 3 training days: not enough history for medium confidence
	assert.Equal(t, ConfidenceLow, rec.ConfidenceLevel)

	require.Equal(t, 1, gemini.calls)
	require.Len(t, gemini.lastContents, 1)
	assert.Contains(t, gemini.lastContents[0].Parts[0].Text, "EXERCISE: press banca")

	assert.Equal(t, float64(1), testutil.ToFloat64(deps.service.metricsManager.CounterCoachRequests))
	assert.Equal(t, float64(0), testutil.ToFloat64(deps.service.metricsManager.CounterCoachFallbacks))
}

func TestService_Recommend_GeminiDown(t *testing.T) {
	gemini := &stubGenerator{err: errors.New("gemini is down")}
	deps := newTestService(t, gemini)
	seedRecentSets(t, deps, "press banca", 55, 57.5, 60)

	rec, err := deps.service.Recommend(t.Context(), "press banca")
	require.NoError(t, err)

	// fallback works off the most recent set: 60kg at RPE 7 earns a bump
	assert.InDelta(t, 62.5, rec.SuggestedWeight, 0.001)
	assert.Equal(t, "7-9", rec.SuggestedReps)
	assert.Equal(t, ConfidenceMedium, rec.ConfidenceLevel)

	assert.Equal(t, float64(1), testutil.ToFloat64(deps.service.metricsManager.CounterCoachFallbacks))
}

func TestService_Recommend_GeminiGarbage(t *testing.T) {
	gemini := &stubGenerator{reply: "I am sorry, as a language model I cannot lift weights."}
	deps := newTestService(t, gemini)
	seedRecentSets(t, deps, "press banca", 60)

	rec, err := deps.service.Recommend(t.Context(), "press banca")
	require.NoError(t, err)

	assert.InDelta(t, 62.5, rec.SuggestedWeight, 0.001)
	assert.Contains(t, rec.Reasoning, "Based on your last set")
	assert.Equal(t, float64(1), testutil.ToFloat64(deps.service.metricsManager.CounterCoachFallbacks))
}

func TestService_Recommend_NoHistory(t *testing.T) {
	gemini := &stubGenerator{reply: "should not be called"}
	deps := newTestService(t, gemini)

	rec, err := deps.service.Recommend(t.Context(), "press banca")
	require.NoError(t, err)

	assert.Equal(t, "press banca", rec.ExerciseName)
	assert.Zero(t, rec.SuggestedWeight)
	assert.Equal(t, "8-12", rec.SuggestedReps)
	assert.Equal(t, ConfidenceLow, rec.ConfidenceLevel)
	assert.Zero(t, gemini.calls)
}

func TestService_ProgressAnalysis(t *testing.T) {
	gemini := &stubGenerator{reply: "Solid progress, keep the bar moving."}
	deps := newTestService(t, gemini)
	seedRecentSets(t, deps, "sentadilla", 90, 95, 100)

	analysis, err := deps.service.ProgressAnalysis(t.Context(), "sentadilla", 30)
	require.NoError(t, err)
	assert.Equal(t, "Solid progress, keep the bar moving.", analysis)

	require.Equal(t, 1, gemini.calls)
	assert.Contains(t, gemini.lastContents[0].Parts[0].Text, "EXERCISE: sentadilla")
}

func TestService_ProgressAnalysis_NoData(t *testing.T) {
	gemini := &stubGenerator{reply: "should not be called"}
	deps := newTestService(t, gemini)

	analysis, err := deps.service.ProgressAnalysis(t.Context(), "sentadilla", 30)
	require.NoError(t, err)
	assert.Contains(t, analysis, "Not enough data")
	assert.Zero(t, gemini.calls)
}

func TestService_ProgressAnalysis_GeminiDown(t *testing.T) {
	gemini := &stubGenerator{err: errors.New("gemini is down")}
	deps := newTestService(t, gemini)
	seedRecentSets(t, deps, "sentadilla", 90, 95, 100)

	analysis, err := deps.service.ProgressAnalysis(t.Context(), "sentadilla", 30)
	require.NoError(t, err)
	assert.Contains(t, analysis, "sentadilla")
	assert.Contains(t, analysis, "100kg")
	assert.Equal(t, float64(1), testutil.ToFloat64(deps.service.metricsManager.CounterCoachFallbacks))
}

func TestService_Chat(t *testing.T) {
	gemini := &stubGenerator{reply: "Try three sets of five."}
	deps := newTestService(t, gemini)

	previous := ChatMessage{
		Type:      ChatMessageTypeUser,
		Message:   "hello coach",
		Timestamp: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
	}
	deps.redisMock.ExpectLRange(chatHistoryKey, 0, -1).SetVal([]string{
		string(marshalChatMessage(t, previous)),
	})
	deps.redisMock.Regexp().ExpectRPush(chatHistoryKey, `.*"type":"user".*`).SetVal(2)
	deps.redisMock.Regexp().ExpectRPush(chatHistoryKey, `.*"type":"ai".*`).SetVal(3)
	deps.redisMock.ExpectLTrim(chatHistoryKey, -chatHistoryLimit, -1).SetVal("OK")

	reply, err := deps.service.Chat(t.Context(), "how heavy should I squat")
	require.NoError(t, err)

	assert.Equal(t, ChatMessageTypeAI, reply.Type)
	assert.Equal(t, "Try three sets of five.", reply.Message)

	// system prompt + stored history + new message, in that order
	require.Len(t, gemini.lastContents, 3)
	assert.Equal(t, "user", gemini.lastContents[0].Role)
	assert.Contains(t, gemini.lastContents[0].Parts[0].Text, "personal trainer")
	assert.Equal(t, "user", gemini.lastContents[1].Role)
	assert.Equal(t, "hello coach", gemini.lastContents[1].Parts[0].Text)
	assert.Equal(t, "how heavy should I squat", gemini.lastContents[2].Parts[0].Text)

	require.NotNil(t, gemini.lastCfg)
	assert.Equal(t, 1024, gemini.lastCfg.MaxOutputTokens)

	require.NoError(t, deps.redisMock.ExpectationsWereMet())
}

func TestService_Chat_HistoryRoles(t *testing.T) {
	gemini := &stubGenerator{reply: "ok"}
	deps := newTestService(t, gemini)

	aiMessage := ChatMessage{
		Type:      ChatMessageTypeAI,
		Message:   "bend your knees",
		Timestamp: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
	}
	deps.redisMock.ExpectLRange(chatHistoryKey, 0, -1).SetVal([]string{
		string(marshalChatMessage(t, aiMessage)),
	})
	deps.redisMock.Regexp().ExpectRPush(chatHistoryKey, `.*`).SetVal(2)
	deps.redisMock.Regexp().ExpectRPush(chatHistoryKey, `.*`).SetVal(3)
	deps.redisMock.ExpectLTrim(chatHistoryKey, -chatHistoryLimit, -1).SetVal("OK")

	_, err := deps.service.Chat(t.Context(), "and then")
	require.NoError(t, err)

	require.Len(t, gemini.lastContents, 3)
	assert.Equal(t, "model", gemini.lastContents[1].Role)
}

func TestService_Chat_GeminiDown(t *testing.T) {
	gemini := &stubGenerator{err: errors.New("gemini is down")}
	deps := newTestService(t, gemini)

	deps.redisMock.ExpectLRange(chatHistoryKey, 0, -1).SetVal([]string{})
	deps.redisMock.Regexp().ExpectRPush(chatHistoryKey, `.*`).SetVal(1)
	deps.redisMock.Regexp().ExpectRPush(chatHistoryKey, `.*`).SetVal(2)
	deps.redisMock.ExpectLTrim(chatHistoryKey, -chatHistoryLimit, -1).SetVal("OK")

	reply, err := deps.service.Chat(t.Context(), "hello?")
	require.NoError(t, err)

	assert.Equal(t, ChatMessageTypeAI, reply.Type)
	assert.Equal(t, chatErrorReply, reply.Message)
	assert.Equal(t, float64(1), testutil.ToFloat64(deps.service.metricsManager.CounterCoachFallbacks))
}
