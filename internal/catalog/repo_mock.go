package catalog

import (
	"context"
	"sort"
)

type repoMock struct {
	entries map[string]*Entry
	media   map[string][]Media
	nextID  int
}

func NewMockCatalogRepo() *repoMock {
	return &repoMock{
		entries: make(map[string]*Entry),
		media:   make(map[string][]Media),
		nextID:  1,
	}
}

func (r *repoMock) AddEntry(_ context.Context, entry Entry) (*Entry, error) {
	entry.ID = r.nextID
	r.nextID++
	r.entries[entry.Name] = &entry
	return &entry, nil
}

func (r *repoMock) GetEntry(_ context.Context, name string) (*Entry, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

func (r *repoMock) ListEntries(context.Context) ([]Entry, error) {
	var entries []Entry
	for _, e := range r.entries {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (r *repoMock) Names(context.Context) ([]string, error) {
	var names []string
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *repoMock) AddMedia(_ context.Context, media Media) (*Media, error) {
	media.ID = r.nextID
	r.nextID++
	r.media[media.ExerciseName] = append(r.media[media.ExerciseName], media)
	return &media, nil
}

func (r *repoMock) MediaForExercise(_ context.Context, exerciseName string) ([]Media, error) {
	return r.media[exerciseName], nil
}
