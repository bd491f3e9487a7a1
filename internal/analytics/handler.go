package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/liftlog/backend/internal/telemetry/tracing"
	"github.com/liftlog/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ProgressResponse struct {
	Progress *Progress `json:"progress"`
	NoData   bool      `json:"noData,omitempty"`
}

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) HandleExerciseProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.exerciseProgress")
	defer span.End()

	vars := mux.Vars(r)
	name := vars["name"]
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	days := DefaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsedDays, err := strconv.Atoi(daysStr)
		if err != nil || parsedDays <= 0 {
			http.Error(w, "error, invalid days", http.StatusBadRequest)
			return
		}
		days = parsedDays
	}

	progress, err := handler.analyzer.ExerciseProgress(ctx, name, days)
	if err != nil {
		log.Errorf("exercise progress [%s]: %s", name, err)
		http.Error(w, "exercise progress failed", http.StatusInternalServerError)
		return
	}

	resp := ProgressResponse{
		Progress: progress,
		NoData:   progress == nil,
	}
	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal progress response: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}
