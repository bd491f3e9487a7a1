package coach

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/liftlog/backend/internal/analytics"
	"github.com/liftlog/backend/internal/workout"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"

	fallbackWeightIncrementKg = 2.5
	fallbackRPEThreshold      = 7
)

// Recommendation is the contract the coach returns for a next-set suggestion,
// whether it came from Gemini or from the local fallback.
type Recommendation struct {
	ExerciseName        string  `json:"exerciseName"`
	SuggestedWeight     float64 `json:"suggestedWeight"`
	SuggestedReps       string  `json:"suggestedReps"`
	Reasoning           string  `json:"reasoning"`
	ProgressNotes       string  `json:"progressNotes"`
	MotivationalMessage string  `json:"motivationalMessage"`
	ConfidenceLevel     string  `json:"confidenceLevel,omitempty"`
}

// StarterRecommendation is handed out when the exercise has no recorded history.
func StarterRecommendation(exerciseName string) Recommendation {
	return Recommendation{
		ExerciseName:        exerciseName,
		SuggestedWeight:     0,
		SuggestedReps:       "8-12",
		Reasoning:           "No previous history for this exercise. Start with a light weight that lets you do 8-12 reps with good form.",
		ProgressNotes:       "First recorded workout",
		MotivationalMessage: "Great, you are starting to track your progress. Consistency is the key to improvement.",
		ConfidenceLevel:     ConfidenceLow,
	}
}

// FallbackRecommendation builds a suggestion from the single most recent set,
// used whenever the AI collaborator is unavailable or returns garbage. A last
// set at RPE 7 or below earns a small weight bump, otherwise the weight holds.
func FallbackRecommendation(exerciseName string, lastSet workout.Set) Recommendation {
	suggestedWeight := lastSet.WeightKg
	if lastSet.RPE != nil && *lastSet.RPE <= fallbackRPEThreshold {
		suggestedWeight += fallbackWeightIncrementKg
	}

	rpeInfo := ""
	if lastSet.RPE != nil {
		rpeInfo = fmt.Sprintf(" (RPE %d)", *lastSet.RPE)
	}

	return Recommendation{
		ExerciseName:        exerciseName,
		SuggestedWeight:     suggestedWeight,
		SuggestedReps:       fmt.Sprintf("%d-%d", max(6, lastSet.Reps-1), lastSet.Reps+1),
		Reasoning:           fmt.Sprintf("Based on your last set: %d reps × %gkg%s", lastSet.Reps, lastSet.WeightKg, rpeInfo),
		ProgressNotes:       "Analysis based on local data",
		MotivationalMessage: "Keep it up! Your progress is being recorded correctly.",
		ConfidenceLevel:     ConfidenceMedium,
	}
}

func confidenceLevel(historyLength, workoutFrequency int) string {
	if historyLength >= 8 && workoutFrequency >= 3 {
		return ConfidenceHigh
	}
	if historyLength >= 4 && workoutFrequency >= 2 {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// parseRecommendation extracts the JSON object from a Gemini reply, tolerating
// markdown code fences around it.
func parseRecommendation(text string) (Recommendation, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var rec Recommendation
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return Recommendation{}, fmt.Errorf("unmarshal recommendation: %w", err)
	}
	if rec.SuggestedReps == "" && rec.Reasoning == "" {
		return Recommendation{}, fmt.Errorf("recommendation json is empty")
	}
	return rec, nil
}

func describeSet(index int, set workout.Set) string {
	rpeInfo := ""
	if set.RPE != nil {
		rpeInfo = fmt.Sprintf(" (RPE %d)", *set.RPE)
	}
	return fmt.Sprintf("Set %d: %d reps × %gkg%s - %s",
		index+1, set.Reps, set.WeightKg, rpeInfo, set.CreatedAt.Format(time.DateOnly))
}

func describeAvgRPE(progress *analytics.Progress) string {
	if progress.AvgRPE == nil {
		return "not recorded"
	}
	return fmt.Sprintf("%.1f", *progress.AvgRPE)
}

func buildRecommendationPrompt(exerciseName string, recentSets []workout.Set, progress *analytics.Progress) string {
	var sb strings.Builder

	sb.WriteString("As an expert personal trainer, analyze the progress of the following exercise and provide specific recommendations:\n\n")
	fmt.Fprintf(&sb, "EXERCISE: %s\n\n", exerciseName)

	sb.WriteString("RECENT HISTORY (latest sets):\n")
	for i, set := range recentSets {
		sb.WriteString(describeSet(i, set))
		sb.WriteString("\n")
	}

	trendSign := ""
	if progress.WeightTrend > 0 {
		trendSign = "+"
	}
	fmt.Fprintf(&sb, `
PROGRESS ANALYSIS (last %d days):
- Max weight: %gkg
- Max reps: %d
- Total volume: %gkg
- Weight trend: %s%.1fkg
- Days trained: %d
- Average RPE: %s

INSTRUCTIONS:
1. Analyze the progression of weight and reps
2. Consider the RPE to judge intensity
3. Provide a specific weight recommendation for the next set
4. Suggest an appropriate rep range
5. Explain your reasoning
6. Add notes about the observed progress
7. Include a personalized motivational message

Respond ONLY with valid JSON using this structure:
{
  "exerciseName": %q,
  "suggestedWeight": [number, decimals allowed],
  "suggestedReps": "[range like '8-10' or a specific number]",
  "reasoning": "[detailed explanation of why you suggest these values]",
  "progressNotes": "[observations about the user's progress]",
  "motivationalMessage": "[personalized, motivating message]"
}
`,
		progress.WindowDays, progress.MaxWeight, progress.MaxReps, progress.TotalVolume,
		trendSign, progress.WeightTrend, progress.WorkoutFrequency, describeAvgRPE(progress),
		exerciseName,
	)

	return sb.String()
}

func buildAnalysisPrompt(exerciseName string, progress *analytics.Progress) string {
	var sb strings.Builder

	sb.WriteString("As a certified personal trainer, provide a detailed analysis of the progress of the following exercise:\n\n")
	fmt.Fprintf(&sb, "EXERCISE: %s\n\n", exerciseName)

	trendDescription := fmt.Sprintf("holding at %.1fkg", progress.WeightTrend)
	if progress.WeightTrend > 0 {
		trendDescription = fmt.Sprintf("up %.1fkg", progress.WeightTrend)
	} else if progress.WeightTrend < 0 {
		trendDescription = fmt.Sprintf("down %.1fkg", -progress.WeightTrend)
	}

	fmt.Fprintf(&sb, `PROGRESS METRICS (last %d days):
- Total sets completed: %d
- Max weight reached: %gkg
- Max reps: %d
- Accumulated volume: %gkg
- Weight trend: %s
- Training frequency: %d days
- Average RPE: %s

LATEST SETS:
`,
		progress.WindowDays, progress.TotalSets, progress.MaxWeight, progress.MaxReps,
		progress.TotalVolume, trendDescription, progress.WorkoutFrequency, describeAvgRPE(progress),
	)

	for i, set := range progress.RecentSets {
		sb.WriteString(describeSet(i, set))
		sb.WriteString("\n")
	}

	sb.WriteString(`
Provide a comprehensive analysis covering:
1. Overall progress assessment
2. Identified strengths
3. Areas to improve
4. Specific recommendations for the next sessions

Answer in plain text, no markdown.`)

	return sb.String()
}
