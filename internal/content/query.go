package content

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/valarz/go-press/internal/domain"
)

// AllCategories disables category filtering, as does an empty category.
const AllCategories = "all"

// ListFilter selects and paginates articles.
type ListFilter struct {
	// Search matches title, excerpt, or any tag, case-insensitively.
	Search   string
	Category string
	// Page is 1-based; values below 1 are treated as 1.
	Page int
	// Limit of zero or less returns every match.
	Limit int
}

// ListResult is one page of articles. Total counts every match before
// pagination.
type ListResult struct {
	Items []domain.Article `json:"items"`
	Total int              `json:"total"`
}

// CategoryFilter selects categories by type. An empty type selects all.
type CategoryFilter struct {
	Type string
}

// TagCount is the number of articles carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// List returns the filtered, sorted page of articles: featured first, then
// newest publish date first, with unparseable dates sorting as the oldest.
// List never fails; storage problems are logged and yield an empty result.
func (s *Store) List(ctx context.Context, filter ListFilter) ListResult {
	articles := s.snapshot(ctx, "list")

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := filter.Category
	if category == AllCategories {
		category = ""
	}

	matched := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if category != "" && article.Category != category {
			continue
		}
		if search != "" && !matchesSearch(article, search) {
			continue
		}
		matched = append(matched, article)
	}
	sortArticles(matched)

	result := ListResult{Items: matched, Total: len(matched)}
	if filter.Limit <= 0 {
		return result
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * filter.Limit
	if offset >= len(matched) {
		result.Items = []domain.Article{}
		return result
	}
	end := min(offset+filter.Limit, len(matched))
	result.Items = matched[offset:end]
	return result
}

// Get returns the article with id.
func (s *Store) Get(ctx context.Context, id int) (*domain.Article, error) {
	articles, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if idx := indexOf(articles, id); idx >= 0 {
		found := articles[idx].Clone()
		return &found, nil
	}
	return nil, articleNotFound(id)
}

// GetBySlug returns the first article stored with slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	articles, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, article := range articles {
		if article.Slug == slug {
			found := article.Clone()
			return &found, nil
		}
	}
	return nil, articleNotFound(slug)
}

// Adjacent returns the articles before and after slug in newest-first
// publish order. Either neighbour is nil at the ends of the list.
func (s *Store) Adjacent(ctx context.Context, slug string) (prev, next *domain.Article, err error) {
	articles, err := s.read(ctx)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return publishTime(articles[i]).After(publishTime(articles[j]))
	})
	for i, article := range articles {
		if article.Slug != slug {
			continue
		}
		if i > 0 {
			before := articles[i-1].Clone()
			prev = &before
		}
		if i+1 < len(articles) {
			after := articles[i+1].Clone()
			next = &after
		}
		return prev, next, nil
	}
	return nil, nil, articleNotFound(slug)
}

// TagCounts tallies tags across every article, most used first and then by
// tag. Tags differing only in case are counted together under the first
// spelling seen.
func (s *Store) TagCounts(ctx context.Context) []TagCount {
	articles := s.snapshot(ctx, "tag_counts")

	counts := map[string]*TagCount{}
	order := []string{}
	for _, article := range articles {
		seen := map[string]struct{}{}
		for _, tag := range article.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if entry, ok := counts[key]; ok {
				entry.Count++
				continue
			}
			counts[key] = &TagCount{Tag: tag, Count: 1}
			order = append(order, key)
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, key := range order {
		out = append(out, *counts[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// ListCategories returns the stored categories matching filter. It never
// fails; storage problems are logged and yield no categories.
func (s *Store) ListCategories(ctx context.Context, filter CategoryFilter) []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureReady(ctx); err != nil {
		s.logger.Warn("content.categories.degraded", "error", err)
		return []domain.Category{}
	}
	categories, err := s.loadCategories(ctx)
	if err != nil {
		s.logger.Warn("content.categories.degraded", "error", err)
		return []domain.Category{}
	}

	out := make([]domain.Category, 0, len(categories))
	for _, category := range categories {
		if filter.Type != "" && category.Type != filter.Type {
			continue
		}
		out = append(out, category)
	}
	return out
}

func (s *Store) read(ctx context.Context) ([]domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	return s.loadArticles(ctx)
}

// snapshot is read for operations that degrade instead of failing.
func (s *Store) snapshot(ctx context.Context, operation string) []domain.Article {
	articles, err := s.read(ctx)
	if err != nil {
		s.logger.Warn("content.articles.degraded", "operation", operation, "error", err)
		return []domain.Article{}
	}
	return articles
}

func matchesSearch(article domain.Article, needle string) bool {
	if strings.Contains(strings.ToLower(article.Title), needle) ||
		strings.Contains(strings.ToLower(article.Excerpt), needle) {
		return true
	}
	for _, tag := range article.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func sortArticles(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].Featured != articles[j].Featured {
			return articles[i].Featured
		}
		return publishTime(articles[i]).After(publishTime(articles[j]))
	})
}

var epoch = time.Unix(0, 0).UTC()

func publishTime(article domain.Article) time.Time {
	if parsed, ok := article.Published(); ok {
		return parsed
	}
	return epoch
}
