package coach

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/liftlog/backend/internal/telemetry/tracing"
	"github.com/liftlog/backend/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=coach_test

type coachService interface {
	Recommend(ctx context.Context, exerciseName string) (Recommendation, error)
	ProgressAnalysis(ctx context.Context, exerciseName string, days int) (string, error)
	Chat(ctx context.Context, message string) (ChatMessage, error)
	ChatMessages(ctx context.Context) ([]ChatMessage, error)
	ClearChat(ctx context.Context) error
}

type RecommendationRequest struct {
	ExerciseName string `json:"exerciseName"`
}

type AnalysisRequest struct {
	ExerciseName string `json:"exerciseName"`
	Days         int    `json:"days,omitempty"`
}

type AnalysisResponse struct {
	ExerciseName string `json:"exerciseName"`
	Analysis     string `json:"analysis"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatHistoryResponse struct {
	Messages []ChatMessage `json:"messages"`
}

type Handler struct {
	service coachService
}

func NewHandler(service coachService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.recommendation")
	defer span.End()

	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("recommendation, unmarshal request: %s", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ExerciseName == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	rec, err := handler.service.Recommend(ctx, req.ExerciseName)
	if err != nil {
		log.Errorf("get recommendation for %s: %s", req.ExerciseName, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	recBytes, err := json.Marshal(rec)
	if err != nil {
		log.Errorf("marshal recommendation: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recBytes, http.StatusOK)
}

func (handler *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.analysis")
	defer span.End()

	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("analysis, unmarshal request: %s", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ExerciseName == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}
	if req.Days < 0 {
		http.Error(w, "error, days must be positive", http.StatusBadRequest)
		return
	}

	analysis, err := handler.service.ProgressAnalysis(ctx, req.ExerciseName, req.Days)
	if err != nil {
		log.Errorf("get analysis for %s: %s", req.ExerciseName, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(AnalysisResponse{
		ExerciseName: req.ExerciseName,
		Analysis:     analysis,
	})
	if err != nil {
		log.Errorf("marshal analysis response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.chat")
	defer span.End()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("chat, unmarshal request: %s", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "error, message empty", http.StatusBadRequest)
		return
	}

	reply, err := handler.service.Chat(ctx, req.Message)
	if err != nil {
		log.Errorf("coach chat: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	replyBytes, err := json.Marshal(reply)
	if err != nil {
		log.Errorf("marshal chat reply: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, replyBytes, http.StatusOK)
}

func (handler *Handler) HandleChatHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.chatHistory")
	defer span.End()

	messages, err := handler.service.ChatMessages(ctx)
	if err != nil {
		log.Errorf("get chat history: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []ChatMessage{}
	}

	respBytes, err := json.Marshal(ChatHistoryResponse{Messages: messages})
	if err != nil {
		log.Errorf("marshal chat history: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) HandleClearChatHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.clearChatHistory")
	defer span.End()

	if err := handler.service.ClearChat(ctx); err != nil {
		log.Errorf("clear chat history: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"cleared":true}`), http.StatusOK)
}
