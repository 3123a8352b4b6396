// Package content holds the portfolio collections and the stores that serve them.
package content

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type Section struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Position int    `json:"position"`
}

type Project struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	ImageBucket string   `json:"image_bucket,omitempty"`
	ImageFile   string   `json:"image_file,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Link        string   `json:"link,omitempty"`
	Tags        []string `json:"tags"`
	Position    int      `json:"position"`
}

// HeroTitle is one rotating headline. DelayMs and DurationMs are filled in
// by Sequence and never stored.
type HeroTitle struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Position   int    `json:"position"`
	DelayMs    int64  `json:"delayMs"`
	DurationMs int64  `json:"durationMs"`
}

type Quote struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Position int    `json:"position"`
}

type Trivia struct {
	ID       int64  `json:"id"`
	Fact     string `json:"fact"`
	Position int    `json:"position"`
}

// Store reads every collection ordered by position.
type Store interface {
	Sections(ctx context.Context) ([]Section, error)
	Projects(ctx context.Context) ([]Project, error)
	Project(ctx context.Context, slug string) (Project, error)
	HeroTitles(ctx context.Context) ([]HeroTitle, error)
	Quotes(ctx context.Context) ([]Quote, error)
	Trivia(ctx context.Context) ([]Trivia, error)
}

// Tables maps each collection to its table name.
const (
	TableSections   = "sections"
	TableProjects   = "projects"
	TableHeroTitles = "hero_titles"
	TableQuotes     = "quotes"
	TableTrivia     = "trivia"
)
