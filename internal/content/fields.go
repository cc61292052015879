package content

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/valarz/go-press/internal/domain"
)

var slugPattern = regexp.MustCompile(`^[^\s/?#]+$`)

// ArticleFields carries caller supplied article values. Nil fields are
// absent: Create derives or defaults them and Update leaves them untouched.
// Tags follows the same rule; a non-nil empty slice clears the tags.
type ArticleFields struct {
	Title       *string  `json:"title,omitempty"`
	Slug        *string  `json:"slug,omitempty"`
	Excerpt     *string  `json:"excerpt,omitempty"`
	Content     *string  `json:"content,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Icon        *string  `json:"icon,omitempty"`
	PublishDate *string  `json:"publishDate,omitempty"`
	ReadTime    *string  `json:"readTime,omitempty"`
	Views       *int     `json:"views,omitempty"`
	Likes       *int     `json:"likes,omitempty"`
	Featured    *bool    `json:"featured,omitempty"`
}

// Validate checks the supplied values without regard to which are required.
func (f ArticleFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.By(func(value any) error {
			if title, ok := value.(*string); ok && title != nil && strings.TrimSpace(*title) == "" {
				return validation.NewError("content.article.title_blank", "title must not be blank")
			}
			return nil
		})),
		validation.Field(&f.Slug, validation.Match(slugPattern).Error("slug must not contain whitespace, '/', '?' or '#'")),
		validation.Field(&f.Views, validation.Min(0)),
		validation.Field(&f.Likes, validation.Min(0)),
	)
}

func validateFields(f ArticleFields, requireTitle bool) error {
	if requireTitle && (f.Title == nil || strings.TrimSpace(*f.Title) == "") {
		return ErrTitleRequired
	}
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return ErrTitleRequired
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	return nil
}

// apply merges the non-nil fields into article.
func (f ArticleFields) apply(article *domain.Article) {
	if f.Title != nil {
		article.Title = strings.TrimSpace(*f.Title)
	}
	if f.Slug != nil {
		article.Slug = *f.Slug
	}
	if f.Excerpt != nil {
		article.Excerpt = *f.Excerpt
	}
	if f.Content != nil {
		article.Content = *f.Content
	}
	if f.Category != nil {
		article.Category = *f.Category
	}
	if f.Tags != nil {
		article.Tags = append([]string{}, f.Tags...)
	}
	if f.Icon != nil {
		article.Icon = *f.Icon
	}
	if f.PublishDate != nil {
		article.PublishDate = *f.PublishDate
	}
	if f.ReadTime != nil {
		article.ReadTime = *f.ReadTime
	}
	if f.Views != nil {
		article.Views = *f.Views
	}
	if f.Likes != nil {
		article.Likes = *f.Likes
	}
	if f.Featured != nil {
		article.Featured = *f.Featured
	}
}

// String returns a pointer to value, for building ArticleFields literals.
func String(value string) *string { return &value }

// Int returns a pointer to value.
func Int(value int) *int { return &value }

// Bool returns a pointer to value.
func Bool(value bool) *bool { return &value }
