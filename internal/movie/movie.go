package movie

import (
	"fmt"
	"strings"
)

// Movie is the value type returned by the backend. It is never
// mutated on the client. VoteAverage is a pointer because the backend
// omits the field for unrated entries.
type Movie struct {
	Title       string   `json:"title"`
	Genres      string   `json:"genres"`
	VoteAverage *float64 `json:"vote_average,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Year        string   `json:"year,omitempty"`
	Popularity  float64  `json:"popularity,omitempty"`
}

// RatingLabel renders the vote average for display, "N/A" when absent.
func (m Movie) RatingLabel() string {
	if m.VoteAverage == nil {
		return "N/A"
	}
	return fmt.Sprintf("⭐%.1f", *m.VoteAverage)
}

// GenreList splits the free-form genres string on the delimiters the
// backend is known to emit (pipe or comma).
func (m Movie) GenreList() []string {
	if strings.TrimSpace(m.Genres) == "" {
		return nil
	}
	sep := "|"
	if !strings.Contains(m.Genres, "|") {
		sep = ","
	}
	parts := strings.Split(m.Genres, sep)
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// DisplayYear prefers the precomputed year, falling back to the
// release date prefix.
func (m Movie) DisplayYear() string {
	if m.Year != "" && m.Year != "Unknown" {
		return m.Year
	}
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return ""
}
