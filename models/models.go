package models

import (
	"errors"
	"time"
)

// ErrNoInsights is returned when generation produced nothing for a topic.
var ErrNoInsights = errors.New("no insights found")

// ErrSourceUnavailable is returned when the news search provider cannot be reached.
var ErrSourceUnavailable = errors.New("news source unavailable")

// ErrExtractorUnavailable is returned when the LLM provider cannot be reached.
var ErrExtractorUnavailable = errors.New("insight extractor unavailable")

// ErrDuplicateSearch is returned when a user re-records an identical term.
var ErrDuplicateSearch = errors.New("search term already recorded")

// ErrTermNotFound is returned when a history record is absent or not owned by the caller.
var ErrTermNotFound = errors.New("search term not found")

// Article is one raw search result from the news source.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Snippet     string    `json:"snippet"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Insight is one atomic attributed claim extracted from an article.
type Insight struct {
	Insight     string `json:"insight"`
	SourceTitle string `json:"source_title"`
	SourceLink  string `json:"source_link"`
}

// CacheEntry is the stored shape of one memoized generation result.
type CacheEntry struct {
	Topic       string    `json:"topic"`
	ResultCount int       `json:"result_count"`
	Insights    []Insight `json:"insights"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SearchTerm is one entry in a user's search history.
type SearchTerm struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Term      string    `json:"term"`
	CreatedAt time.Time `json:"created_at"`
}
