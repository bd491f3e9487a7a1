package catalog

import "time"

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Entry is a canonical exercise in the catalog. Reference data, immutable
// once added.
type Entry struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	PrimaryMuscles   []string  `json:"primaryMuscles,omitempty"`
	SecondaryMuscles []string  `json:"secondaryMuscles,omitempty"`
	RestTimeSeconds  int       `json:"restTimeSeconds,omitempty"`
	Instructions     []string  `json:"instructions,omitempty"`
	Tips             []string  `json:"tips,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Media is an instructional image or video attached to a catalog exercise.
type Media struct {
	ID           int       `json:"id"`
	ExerciseName string    `json:"exerciseName"`
	Type         MediaType `json:"mediaType"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
