package markdown

import (
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/valarz/go-press/internal/domain"
	"github.com/valarz/go-press/pkg/interfaces"
)

// ArticleFromDocument builds the article for doc. Metadata keys other than
// title, category, tags, icon, excerpt, featured, publishDate, readTime, and
// slug are ignored; missing values are derived from the body.
func ArticleFromDocument(doc *interfaces.Document, id int, deriver *Deriver, categories *CategoryMap, now time.Time) domain.Article {
	fm := doc.FrontMatter
	body := string(doc.Body)
	fileName := path.Base(doc.FilePath)

	title := fm.Get("title")
	if title == "" {
		title = strings.TrimSuffix(fileName, path.Ext(fileName))
	}

	article := domain.Article{
		ID:          id,
		Title:       title,
		Slug:        fm.Get("slug"),
		Excerpt:     fm.Get("excerpt"),
		Content:     body,
		Category:    categories.Canonical(fm.Get("category")),
		Tags:        fm.Tags(),
		Icon:        fm.Get("icon"),
		PublishDate: fm.Get("publishDate"),
		ReadTime:    fm.Get("readTime"),
		Featured:    fm.Featured(),
		SourceFile:  fileName,
	}
	if article.Slug == "" {
		article.Slug = deriver.Slug(title)
	}
	if article.Excerpt == "" {
		article.Excerpt = deriver.Excerpt(body)
	}
	if article.Icon == "" {
		article.Icon = deriver.DefaultIcon()
	}
	if article.PublishDate == "" {
		article.PublishDate = now.Format(domain.DateLayout)
	}
	if article.ReadTime == "" {
		article.ReadTime = deriver.ReadTime(body)
	}
	return article
}

// UniqueSlug returns base, or base suffixed with -2, -3, ... until taken
// reports false. An empty base falls back to article-<id>.
func UniqueSlug(base string, id int, taken func(string) bool) string {
	if base == "" {
		base = "article-" + strconv.Itoa(id)
	}
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
