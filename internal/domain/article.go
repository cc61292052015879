package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for publish dates and shard names.
const DateLayout = "2006-01-02"

// Article is a single published entry. JSON field names match the persisted
// collection layout shared by the store, shards, and baseline datasets.
type Article struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Icon        string   `json:"icon"`
	PublishDate string   `json:"publishDate"`
	ReadTime    string   `json:"readTime"`
	Views       int      `json:"views"`
	Likes       int      `json:"likes"`
	Featured    bool     `json:"featured"`
	SourceFile  string   `json:"sourceFile,omitempty"`
}

// Clone returns a deep copy so callers never share the tag slice.
func (a Article) Clone() Article {
	cloned := a
	if a.Tags != nil {
		cloned.Tags = append([]string(nil), a.Tags...)
	}
	return cloned
}

// HasTag reports whether the article carries the tag, ignoring case.
func (a Article) HasTag(tag string) bool {
	for _, candidate := range a.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}

// Published parses PublishDate. Unparseable dates report false.
func (a Article) Published() (time.Time, bool) {
	return ParsePublishDate(a.PublishDate)
}

// ParsePublishDate accepts either a calendar date or an RFC3339 timestamp.
func ParsePublishDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(DateLayout, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

// Category groups articles or tools under a display label.
type Category struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
}

const (
	// CategoryTypeArticle marks categories used by articles.
	CategoryTypeArticle = "article"
	// CategoryTypeTool marks categories used by the tools listing.
	CategoryTypeTool = "tool"
)
