package domain

import (
	"time"

	internaldomain "github.com/valarz/go-press/internal/domain"
)

// Article is a single published entry.
type Article = internaldomain.Article

// Category groups articles or tools under a display label.
type Category = internaldomain.Category

// DateLayout is the calendar date format used for publish dates.
const DateLayout = internaldomain.DateLayout

const (
	// CategoryTypeArticle marks categories used by articles.
	CategoryTypeArticle = internaldomain.CategoryTypeArticle
	// CategoryTypeTool marks categories used by the tools listing.
	CategoryTypeTool = internaldomain.CategoryTypeTool
)

// ParsePublishDate accepts either a calendar date or an RFC3339 timestamp.
func ParsePublishDate(value string) (time.Time, bool) {
	return internaldomain.ParsePublishDate(value)
}
