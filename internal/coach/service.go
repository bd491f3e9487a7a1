package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/liftlog/backend/internal/analytics"
	"github.com/liftlog/backend/internal/telemetry/metrics"
	"github.com/liftlog/backend/internal/telemetry/tracing"
	"github.com/liftlog/backend/internal/workout"

	log "github.com/sirupsen/logrus"
)

const (
	recommendationHistoryLimit = 10
	promptSetsLimit            = 5

	chatSystemPrompt = `You are an AI personal trainer specialized in fitness and nutrition.
You have access to the user's progress data and should give personalized advice.

Your personality:
- Motivating and positive
- Science and evidence based
- Adaptable to different fitness levels
- Focused on sustainable results
- Specialist in gym routines, calisthenics and nutrition

Keep a professional but friendly tone.`

	chatErrorReply = "Sorry, there was an error processing your message. Please try again."
)

var chatGenerationConfig = &GenerationConfig{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 1024,
}

type contentGenerator interface {
	Generate(ctx context.Context, contents []Content, cfg *GenerationConfig) (string, error)
}

type progressAnalyzer interface {
	ExerciseProgress(ctx context.Context, exerciseName string, days int) (*analytics.Progress, error)
}

type historyRepo interface {
	ExerciseHistory(ctx context.Context, exerciseName string, limit int) ([]workout.Set, error)
}

// Service is the AI coach: next-set recommendations, progress analysis and a
// free-form chat. Gemini failures never reach the caller as errors, a local
// fallback answers instead.
type Service struct {
	gemini         contentGenerator
	analyzer       progressAnalyzer
	repo           historyRepo
	chatHistory    *ChatHistory
	metricsManager *metrics.Manager
}

func NewService(
	gemini contentGenerator,
	analyzer progressAnalyzer,
	repo historyRepo,
	chatHistory *ChatHistory,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		gemini:         gemini,
		analyzer:       analyzer,
		repo:           repo,
		chatHistory:    chatHistory,
		metricsManager: metricsManager,
	}
}

// Recommend produces a next-set suggestion for an exercise. History and
// analytics come from storage; a storage error is a real error, but any
// Gemini trouble degrades to the local fallback.
func (s *Service) Recommend(ctx context.Context, exerciseName string) (_ Recommendation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coach.service.recommend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.metricsManager.CounterCoachRequests.Inc()

	history, err := s.repo.ExerciseHistory(ctx, exerciseName, recommendationHistoryLimit)
	if err != nil {
		return Recommendation{}, fmt.Errorf("exercise history: %w", err)
	}

	progress, err := s.analyzer.ExerciseProgress(ctx, exerciseName, analytics.DefaultWindowDays)
	if err != nil {
		return Recommendation{}, fmt.Errorf("exercise progress: %w", err)
	}

	if len(history) == 0 || progress == nil {
		return StarterRecommendation(exerciseName), nil
	}

	promptSets := history
	if len(promptSets) > promptSetsLimit {
		promptSets = promptSets[:promptSetsLimit]
	}

	prompt := buildRecommendationPrompt(exerciseName, promptSets, progress)
	reply, err := s.gemini.Generate(ctx, UserPrompt(prompt), nil)
	if err != nil {
		log.Errorf("coach recommend, gemini generate: %s", err)
		s.metricsManager.CounterCoachFallbacks.Inc()
		return FallbackRecommendation(exerciseName, history[0]), nil
	}

	rec, err := parseRecommendation(reply)
	if err != nil {
		log.Errorf("coach recommend, parse gemini reply: %s", err)
		s.metricsManager.CounterCoachFallbacks.Inc()
		return FallbackRecommendation(exerciseName, history[0]), nil
	}

	rec.ExerciseName = exerciseName
	rec.ConfidenceLevel = confidenceLevel(len(history), progress.WorkoutFrequency)

	return rec, nil
}

// ProgressAnalysis returns a plain-text coaching assessment of an exercise
// over the trailing window.
func (s *Service) ProgressAnalysis(ctx context.Context, exerciseName string, days int) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coach.service.progressAnalysis")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.metricsManager.CounterCoachRequests.Inc()

	progress, err := s.analyzer.ExerciseProgress(ctx, exerciseName, days)
	if err != nil {
		return "", fmt.Errorf("exercise progress: %w", err)
	}
	if progress == nil {
		return "Not enough data to analyze the progress of this exercise yet.", nil
	}

	prompt := buildAnalysisPrompt(exerciseName, progress)
	analysis, err := s.gemini.Generate(ctx, UserPrompt(prompt), nil)
	if err != nil {
		log.Errorf("coach analysis, gemini generate: %s", err)
		s.metricsManager.CounterCoachFallbacks.Inc()
		return localAnalysis(progress), nil
	}

	return analysis, nil
}

// Chat answers a free-form message, feeding the stored conversation back to
// Gemini for context. Both the user message and the reply are persisted.
func (s *Service) Chat(ctx context.Context, message string) (_ ChatMessage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coach.service.chat")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.metricsManager.CounterCoachRequests.Inc()

	history, err := s.chatHistory.Messages(ctx)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("chat history: %w", err)
	}

	contents := make([]Content, 0, len(history)+2)
	contents = append(contents, Content{Role: "user", Parts: []Part{{Text: chatSystemPrompt}}})
	for _, chatMessage := range history {
		role := "model"
		if chatMessage.Type == ChatMessageTypeUser {
			role = "user"
		}
		contents = append(contents, Content{Role: role, Parts: []Part{{Text: chatMessage.Message}}})
	}
	contents = append(contents, Content{Role: "user", Parts: []Part{{Text: message}}})

	replyText, err := s.gemini.Generate(ctx, contents, chatGenerationConfig)
	if err != nil {
		log.Errorf("coach chat, gemini generate: %s", err)
		s.metricsManager.CounterCoachFallbacks.Inc()
		replyText = chatErrorReply
	}

	now := time.Now()
	reply := ChatMessage{
		Type:      ChatMessageTypeAI,
		Message:   replyText,
		Timestamp: now,
	}

	if err := s.chatHistory.Append(ctx,
		ChatMessage{Type: ChatMessageTypeUser, Message: message, Timestamp: now},
		reply,
	); err != nil {
		return ChatMessage{}, fmt.Errorf("append chat history: %w", err)
	}

	return reply, nil
}

func (s *Service) ChatMessages(ctx context.Context) ([]ChatMessage, error) {
	return s.chatHistory.Messages(ctx)
}

func (s *Service) ClearChat(ctx context.Context) error {
	return s.chatHistory.Clear(ctx)
}

// localAnalysis is the deterministic stand-in when Gemini is unreachable.
func localAnalysis(progress *analytics.Progress) string {
	trend := "held steady"
	if progress.WeightTrend > 0 {
		trend = fmt.Sprintf("went up by %.1fkg", progress.WeightTrend)
	} else if progress.WeightTrend < 0 {
		trend = fmt.Sprintf("went down by %.1fkg", -progress.WeightTrend)
	}
	return fmt.Sprintf(
		"Over the last %d days you completed %d sets of %s across %d training days. "+
			"Your best set was %gkg and your top reps were %d, for a total volume of %gkg. "+
			"The working weight %s. Keep logging your sets to unlock a deeper analysis.",
		progress.WindowDays, progress.TotalSets, progress.ExerciseName, progress.WorkoutFrequency,
		progress.MaxWeight, progress.MaxReps, progress.TotalVolume, trend,
	)
}
