package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/liftlog/backend/internal/telemetry/tracing"
	"github.com/liftlog/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=catalog_test

type catalogService interface {
	Entries(ctx context.Context) ([]Entry, error)
	Entry(ctx context.Context, name string) (*Entry, error)
	AddEntry(ctx context.Context, entry Entry) (*Entry, error)
	AddMedia(ctx context.Context, media Media) (*Media, error)
	ResolveName(ctx context.Context, searchName string) ([]Match, error)
	MediaFor(ctx context.Context, exerciseName string) ([]Media, *Match, error)
}

type ListResponse struct {
	Exercises []Entry `json:"exercises"`
	Total     int     `json:"total"`
}

type ResolveResponse struct {
	Matches []Match `json:"matches"`
}

type MediaResponse struct {
	Media []Media `json:"media"`
	// ResolvedFrom is set when the resolver picked a different catalog name
	ResolvedFrom *Match `json:"resolvedFrom,omitempty"`
}

type Handler struct {
	service catalogService
}

func NewHandler(service catalogService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	entries, err := handler.service.Entries(ctx)
	if err != nil {
		log.Errorf("list catalog entries: %s", err)
		http.Error(w, "failed to list exercises", http.StatusInternalServerError)
		return
	}

	resp := ListResponse{
		Exercises: entries,
		Total:     len(entries),
	}
	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal catalog list response: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.get")
	defer span.End()

	vars := mux.Vars(r)
	name := vars["name"]
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.Entry(ctx, name)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("get catalog entry [%s]: %s", name, err)
		http.Error(w, "failed to get exercise", http.StatusInternalServerError)
		return
	}

	entryBytes, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("marshal catalog entry: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryBytes, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Errorf("add catalog entry, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}
	if entry.Name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	added, err := handler.service.AddEntry(ctx, entry)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "exercise already exists", http.StatusConflict)
			return
		}
		log.Errorf("add catalog entry: %s", err)
		http.Error(w, "add exercise failed", http.StatusInternalServerError)
		return
	}

	addedBytes, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added catalog entry: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedBytes, http.StatusCreated)
}

func (handler *Handler) HandleAddMedia(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.addMedia")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	name := vars["name"]
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	var media Media
	if err := json.NewDecoder(r.Body).Decode(&media); err != nil {
		log.Errorf("add media, unmarshal json params: %s", err)
		http.Error(w, "add media failed", http.StatusBadRequest)
		return
	}
	media.ExerciseName = name
	if media.Type != MediaTypeImage && media.Type != MediaTypeVideo {
		http.Error(w, "error, invalid media type", http.StatusBadRequest)
		return
	}
	if media.CreatedAt.IsZero() {
		media.CreatedAt = time.Now()
	}

	added, err := handler.service.AddMedia(ctx, media)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("add media for [%s]: %s", name, err)
		http.Error(w, "add media failed", http.StatusInternalServerError)
		return
	}

	addedBytes, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added media: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedBytes, http.StatusCreated)
}

func (handler *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.resolve")
	defer span.End()

	vars := mux.Vars(r)
	name := vars["name"]
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	matches, err := handler.service.ResolveName(ctx, name)
	if err != nil {
		log.Errorf("resolve exercise name [%s]: %s", name, err)
		http.Error(w, "resolve failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(ResolveResponse{Matches: matches})
	if err != nil {
		log.Errorf("marshal resolve response: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) HandleGetMedia(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.getMedia")
	defer span.End()

	vars := mux.Vars(r)
	name := vars["name"]
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	media, resolvedFrom, err := handler.service.MediaFor(ctx, name)
	if err != nil {
		log.Errorf("get media for [%s]: %s", name, err)
		http.Error(w, "failed to get media", http.StatusInternalServerError)
		return
	}

	resp := MediaResponse{
		Media:        media,
		ResolvedFrom: resolvedFrom,
	}
	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal media response: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}
