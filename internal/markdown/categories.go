package markdown

import "strings"

const (
	// DefaultCategoryLabel is assumed when a document names no category.
	DefaultCategoryLabel = "technology"
	// DefaultCanonicalCategory is used for labels missing from the table.
	DefaultCanonicalCategory = "技术"
)

// DefaultCategoryTable maps lower-cased labels to canonical categories.
func DefaultCategoryTable() map[string]string {
	return map[string]string{
		"technology": "技术",
		"tech":       "技术",
		"技术":         "技术",
		"design":     "设计",
		"设计":         "设计",
		"life":       "生活",
		"生活":         "生活",
	}
}

// CategoryMap normalises free-text labels into the closed canonical set.
type CategoryMap struct {
	table    map[string]string
	fallback string
}

// NewCategoryMap builds a map from table, which may be nil to use the
// default table. Keys are matched case-insensitively.
func NewCategoryMap(table map[string]string, fallback string) *CategoryMap {
	if len(table) == 0 {
		table = DefaultCategoryTable()
	}
	normalized := make(map[string]string, len(table))
	for label, canonical := range table {
		normalized[strings.ToLower(strings.TrimSpace(label))] = canonical
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultCanonicalCategory
	}
	return &CategoryMap{table: normalized, fallback: fallback}
}

// Canonical maps label to its canonical category.
func (m *CategoryMap) Canonical(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		key = DefaultCategoryLabel
	}
	if canonical, ok := m.table[key]; ok {
		return canonical
	}
	return m.fallback
}
