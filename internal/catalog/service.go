package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/liftlog/backend/internal/telemetry/metrics"
	"github.com/liftlog/backend/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const namesCacheKey = "catalog-names"

type catalogRepo interface {
	AddEntry(ctx context.Context, entry Entry) (*Entry, error)
	GetEntry(ctx context.Context, name string) (*Entry, error)
	ListEntries(ctx context.Context) ([]Entry, error)
	Names(ctx context.Context) ([]string, error)
	AddMedia(ctx context.Context, media Media) (*Media, error)
	MediaForExercise(ctx context.Context, exerciseName string) ([]Media, error)
}

// Service answers catalog lookups, resolving free-text exercise names to
// canonical catalog entries when the exact name is unknown. Catalog names and
// media are cached as the catalog changes rarely.
type Service struct {
	repo           catalogRepo
	resolver       *Resolver
	cache          *freecache.Cache
	cacheTTLSecs   int
	metricsManager *metrics.Manager
}

func NewService(
	repo catalogRepo,
	resolver *Resolver,
	cache *freecache.Cache,
	cacheTTLSecs int,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		resolver:       resolver,
		cache:          cache,
		cacheTTLSecs:   cacheTTLSecs,
		metricsManager: metricsManager,
	}
}

func (s *Service) Entries(ctx context.Context) ([]Entry, error) {
	return s.repo.ListEntries(ctx)
}

func (s *Service) Entry(ctx context.Context, name string) (*Entry, error) {
	return s.repo.GetEntry(ctx, name)
}

func (s *Service) AddEntry(ctx context.Context, entry Entry) (*Entry, error) {
	added, err := s.repo.AddEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.cache.Del([]byte(namesCacheKey))
	return added, nil
}

func (s *Service) AddMedia(ctx context.Context, media Media) (*Media, error) {
	added, err := s.repo.AddMedia(ctx, media)
	if err != nil {
		return nil, err
	}
	s.cache.Del([]byte(mediaCacheKey(media.ExerciseName)))
	return added, nil
}

// ResolveName returns the top catalog candidates for a free-text exercise name.
func (s *Service) ResolveName(ctx context.Context, searchName string) (_ []Match, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.service.resolveName")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	names, err := s.names(ctx)
	if err != nil {
		return nil, fmt.Errorf("get catalog names: %w", err)
	}

	matches := s.resolver.FindMatches(searchName, names)
	if len(matches) == 0 {
		s.metricsManager.CounterResolverNoMatch.Inc()
	}
	return matches, nil
}

// MediaFor returns media for an exercise name. When the exact name is unknown
// to the catalog, the resolver picks the best matching canonical name; the
// returned match says which one was used, nil for a direct hit. No match is
// not an error, just an empty result.
func (s *Service) MediaFor(ctx context.Context, exerciseName string) (_ []Media, _ *Match, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.service.mediaFor")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	media, err := s.mediaForExactName(ctx, exerciseName)
	if err != nil {
		return nil, nil, err
	}
	if len(media) > 0 {
		return media, nil, nil
	}

	names, err := s.names(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get catalog names: %w", err)
	}

	bestMatch, found := s.resolver.Resolve(exerciseName, names)
	if !found {
		log.Debugf("no catalog match found for exercise: %q", exerciseName)
		s.metricsManager.CounterResolverNoMatch.Inc()
		return nil, nil, nil
	}

	log.Debugf("using catalog match for %q: %q (score: %.1f%%)", exerciseName, bestMatch.Name, bestMatch.Score)

	media, err = s.mediaForExactName(ctx, bestMatch.Name)
	if err != nil {
		return nil, nil, err
	}
	return media, &bestMatch, nil
}

func (s *Service) names(ctx context.Context) ([]string, error) {
	if cached, err := s.cache.Get([]byte(namesCacheKey)); err == nil {
		var names []string
		if err := json.Unmarshal(cached, &names); err == nil {
			return names, nil
		}
		log.Errorf("catalog service: unmarshal cached names: %s", err)
	}

	names, err := s.repo.Names(ctx)
	if err != nil {
		return nil, err
	}

	if namesBytes, err := json.Marshal(names); err != nil {
		log.Errorf("catalog service: marshal names for cache: %s", err)
	} else if err := s.cache.Set([]byte(namesCacheKey), namesBytes, s.cacheTTLSecs); err != nil {
		log.Errorf("catalog service: cache names: %s", err)
	}

	return names, nil
}

func (s *Service) mediaForExactName(ctx context.Context, exerciseName string) ([]Media, error) {
	cacheKey := []byte(mediaCacheKey(exerciseName))
	if cached, err := s.cache.Get(cacheKey); err == nil {
		var media []Media
		if err := json.Unmarshal(cached, &media); err == nil {
			return media, nil
		}
		log.Errorf("catalog service: unmarshal cached media: %s", err)
	}

	media, err := s.repo.MediaForExercise(ctx, exerciseName)
	if err != nil {
		return nil, err
	}
	if len(media) == 0 {
		return nil, nil
	}

	if mediaBytes, err := json.Marshal(media); err != nil {
		log.Errorf("catalog service: marshal media for cache: %s", err)
	} else if err := s.cache.Set(cacheKey, mediaBytes, s.cacheTTLSecs); err != nil {
		log.Errorf("catalog service: cache media: %s", err)
	}

	return media, nil
}

func mediaCacheKey(exerciseName string) string {
	return "catalog-media||" + exerciseName
}
