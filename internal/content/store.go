package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valarz/go-press/internal/domain"
	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/internal/markdown"
	"github.com/valarz/go-press/internal/validation"
	"github.com/valarz/go-press/pkg/interfaces"
	"github.com/valarz/go-press/pkg/storage"
)

const (
	DefaultArticlesKey   = "press_articles"
	DefaultCategoriesKey = "press_categories"
	DefaultSequenceKey   = "press_articles_seq"
)

// Keys names the durable store entries holding each collection.
type Keys struct {
	Articles   string
	Categories string
	// Sequence records the highest article id ever issued so deleted ids are
	// never handed out again.
	Sequence string
}

// StoreOption configures the store at construction time.
type StoreOption func(*Store)

// WithLogger sets the logger used for bootstrap and degraded reads.
func WithLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for default publish dates.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithKeys overrides the durable store key names. Empty names keep defaults.
func WithKeys(keys Keys) StoreOption {
	return func(s *Store) {
		if keys.Articles != "" {
			s.keys.Articles = keys.Articles
		}
		if keys.Categories != "" {
			s.keys.Categories = keys.Categories
		}
		if keys.Sequence != "" {
			s.keys.Sequence = keys.Sequence
		}
	}
}

// WithDeriver sets the deriver used for slugs, excerpts, and read times.
func WithDeriver(deriver *markdown.Deriver) StoreOption {
	return func(s *Store) {
		if deriver != nil {
			s.deriver = deriver
		}
	}
}

// Store is the article and category repository. It owns its collections in a
// durable key-value store and serialises every read-modify-write cycle.
type Store struct {
	kv      storage.Store
	sources Sources
	logger  interfaces.Logger
	now     func() time.Time
	deriver *markdown.Deriver
	keys    Keys

	mu    sync.Mutex
	ready bool
}

// NewStore constructs a store over kv. Bootstrap runs on Init or on the
// first operation.
func NewStore(kv storage.Store, sources Sources, opts ...StoreOption) (*Store, error) {
	if kv == nil {
		return nil, ErrStoreRequired
	}
	s := &Store{
		kv:      kv,
		sources: sources,
		logger:  logging.ContentLogger(nil),
		now:     time.Now,
		deriver: markdown.NewDeriver(markdown.DeriverConfig{}),
		keys: Keys{
			Articles:   DefaultArticlesKey,
			Categories: DefaultCategoriesKey,
			Sequence:   DefaultSequenceKey,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Init bootstraps both collections. For each one without a stored value (or
// with an unparseable one) the baseline is fetched and written verbatim; an
// unavailable baseline is logged and replaced by an empty collection. Init
// is idempotent and only fails when the durable store does.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureReady(ctx)
}

func (s *Store) ensureReady(ctx context.Context) error {
	if s.ready {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.bootstrap(ctx, s.keys.Categories, s.sources.Categories, validation.CategoryList); err != nil {
		return err
	}
	if err := s.bootstrap(ctx, s.keys.Articles, s.sources.Articles, validation.ArticleList); err != nil {
		return err
	}
	s.ready = true
	return nil
}

func (s *Store) bootstrap(ctx context.Context, key string, source Source, doc validation.Document) error {
	existing, err := s.kv.Get(ctx, key)
	switch {
	case err == nil:
		var probe []json.RawMessage
		if json.Unmarshal(existing, &probe) == nil {
			return nil
		}
		s.logger.Warn("content.bootstrap.unparseable", "key", key)
	case errors.Is(err, storage.ErrNotFound):
	default:
		return fmt.Errorf("content: read %s: %w", key, err)
	}

	payload := s.fetchBaseline(ctx, key, source, doc)
	if err := s.kv.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("content: write %s: %w", key, err)
	}
	return nil
}

func (s *Store) fetchBaseline(ctx context.Context, key string, source Source, doc validation.Document) []byte {
	empty := []byte("[]")
	if source == nil {
		s.logger.Info("content.bootstrap.empty", "key", key)
		return empty
	}
	payload, err := source.Fetch(ctx)
	if err == nil {
		err = validation.Validate(doc, payload)
	}
	if err != nil {
		s.logger.Warn("content.bootstrap.fallback",
			"key", key,
			"location", source.Location(),
			"error", err,
		)
		return empty
	}
	s.logger.Info("content.bootstrap.loaded", "key", key, "location", source.Location(), "bytes", len(payload))
	return payload
}

func (s *Store) loadArticles(ctx context.Context) ([]domain.Article, error) {
	raw, err := s.kv.Get(ctx, s.keys.Articles)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []domain.Article{}, nil
		}
		return nil, fmt.Errorf("content: read articles: %w", err)
	}
	var articles []domain.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("content: decode articles: %w", err)
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	return articles, nil
}

func (s *Store) saveArticles(ctx context.Context, articles []domain.Article) error {
	data, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("content: encode articles: %w", err)
	}
	if err := s.kv.Put(ctx, s.keys.Articles, data); err != nil {
		return fmt.Errorf("content: write articles: %w", err)
	}
	return nil
}

func (s *Store) loadCategories(ctx context.Context) ([]domain.Category, error) {
	raw, err := s.kv.Get(ctx, s.keys.Categories)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []domain.Category{}, nil
		}
		return nil, fmt.Errorf("content: read categories: %w", err)
	}
	var categories []domain.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("content: decode categories: %w", err)
	}
	return categories, nil
}

// lastIssued returns the recorded id high-water mark, or 0.
func (s *Store) lastIssued(ctx context.Context) (int, error) {
	raw, err := s.kv.Get(ctx, s.keys.Sequence)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("content: read sequence: %w", err)
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		s.logger.Warn("content.sequence.unparseable", "key", s.keys.Sequence, "error", err)
		return 0, nil
	}
	return value, nil
}

func (s *Store) recordIssued(ctx context.Context, id int) error {
	if err := s.kv.Put(ctx, s.keys.Sequence, []byte(strconv.Itoa(id))); err != nil {
		return fmt.Errorf("content: write sequence: %w", err)
	}
	return nil
}

// Create appends a new article. The id is one past the highest id ever
// issued. Absent fields default: today's publish date, zero counters, not
// featured, the default icon, and slug, excerpt, and read time derived from
// title and content. A slug already in use gets a numeric suffix.
func (s *Store) Create(ctx context.Context, fields ArticleFields) (*domain.Article, error) {
	if err := validateFields(fields, true); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	articles, err := s.loadArticles(ctx)
	if err != nil {
		return nil, err
	}
	issued, err := s.lastIssued(ctx)
	if err != nil {
		return nil, err
	}
	nextID := max(maxArticleID(articles), issued) + 1

	article := domain.Article{
		ID:          nextID,
		PublishDate: s.now().Format(domain.DateLayout),
		Icon:        s.deriver.DefaultIcon(),
		Tags:        []string{},
	}
	fields.apply(&article)

	if article.Slug == "" {
		article.Slug = s.deriver.Slug(article.Title)
	}
	article.Slug = markdown.UniqueSlug(article.Slug, article.ID, slugTaken(articles, 0))
	if fields.Excerpt == nil {
		article.Excerpt = s.deriver.Excerpt(article.Content)
	}
	if fields.ReadTime == nil {
		article.ReadTime = s.deriver.ReadTime(article.Content)
	}

	articles = append(articles, article)
	if err := s.saveArticles(ctx, articles); err != nil {
		return nil, err
	}
	if err := s.recordIssued(ctx, article.ID); err != nil {
		return nil, err
	}

	s.logger.Info("content.article.created", "id", article.ID, "slug", article.Slug)
	created := article.Clone()
	return &created, nil
}

// Update shallow-merges the non-nil fields into the article with id. An
// explicit slug owned by another article is rejected with ErrSlugExists; an
// explicit empty slug is derived again from the title.
func (s *Store) Update(ctx context.Context, id int, fields ArticleFields) (*domain.Article, error) {
	if err := validateFields(fields, false); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	articles, err := s.loadArticles(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(articles, id)
	if idx < 0 {
		return nil, articleNotFound(id)
	}

	article := articles[idx].Clone()
	fields.apply(&article)
	if fields.Slug != nil {
		taken := slugTaken(articles, id)
		if article.Slug == "" {
			article.Slug = markdown.UniqueSlug(s.deriver.Slug(article.Title), id, taken)
		} else if taken(article.Slug) {
			return nil, fmt.Errorf("%w: %q", ErrSlugExists, article.Slug)
		}
	}

	articles[idx] = article
	if err := s.saveArticles(ctx, articles); err != nil {
		return nil, err
	}

	s.logger.Info("content.article.updated", "id", id)
	updated := article.Clone()
	return &updated, nil
}

// Delete removes the article with id.
func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	articles, err := s.loadArticles(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(articles, id)
	if idx < 0 {
		return articleNotFound(id)
	}

	if issued, err := s.lastIssued(ctx); err == nil && id > issued {
		if err := s.recordIssued(ctx, maxArticleID(articles)); err != nil {
			return err
		}
	}

	articles = append(articles[:idx], articles[idx+1:]...)
	if err := s.saveArticles(ctx, articles); err != nil {
		return err
	}
	s.logger.Info("content.article.deleted", "id", id)
	return nil
}

func indexOf(articles []domain.Article, id int) int {
	for i := range articles {
		if articles[i].ID == id {
			return i
		}
	}
	return -1
}

func maxArticleID(articles []domain.Article) int {
	maxID := 0
	for _, article := range articles {
		if article.ID > maxID {
			maxID = article.ID
		}
	}
	return maxID
}

// slugTaken reports slugs owned by any article other than self.
func slugTaken(articles []domain.Article, self int) func(string) bool {
	return func(slug string) bool {
		for _, article := range articles {
			if article.ID != self && article.Slug == slug {
				return true
			}
		}
		return false
	}
}
