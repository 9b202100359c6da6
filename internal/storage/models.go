package storage

import (
	"time"

	"github.com/cinelab/cine/internal/movie"
)

// SavedMovie is a watch-later entry: the movie as it looked when
// saved, plus when it was added.
type SavedMovie struct {
	Movie   movie.Movie `json:"movie"`
	AddedAt time.Time   `json:"added_at"`
}
