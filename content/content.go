package content

import (
	"time"

	internalcontent "github.com/valarz/go-press/internal/content"
	"github.com/valarz/go-press/pkg/interfaces"
	"github.com/valarz/go-press/pkg/storage"
)

// Store exports the article and category store.
type Store = internalcontent.Store

// StoreOption exports store construction options.
type StoreOption = internalcontent.StoreOption

// Keys exports the durable store key names.
type Keys = internalcontent.Keys

// ArticleFields exports the partial article input used by Create and Update.
type ArticleFields = internalcontent.ArticleFields

type (
	ListFilter     = internalcontent.ListFilter
	ListResult     = internalcontent.ListResult
	CategoryFilter = internalcontent.CategoryFilter
	TagCount       = internalcontent.TagCount
	NotFoundError  = internalcontent.NotFoundError
	Source         = internalcontent.Source
	Sources        = internalcontent.Sources
	SourceOptions  = internalcontent.SourceOptions
	FileSource     = internalcontent.FileSource
	HTTPSource     = internalcontent.HTTPSource
	ShardSource    = internalcontent.ShardSource
)

// AllCategories disables the category filter.
const AllCategories = internalcontent.AllCategories

var (
	ErrNotFound       = internalcontent.ErrNotFound
	ErrTitleRequired  = internalcontent.ErrTitleRequired
	ErrSlugExists     = internalcontent.ErrSlugExists
	ErrInvalidFields  = internalcontent.ErrInvalidFields
	ErrStoreRequired  = internalcontent.ErrStoreRequired
	ErrSourceLocation = internalcontent.ErrSourceLocation
)

// NewStore constructs a store over kv.
func NewStore(kv storage.Store, sources Sources, opts ...StoreOption) (*Store, error) {
	return internalcontent.NewStore(kv, sources, opts...)
}

// ResolveSource builds a baseline source from a location string.
func ResolveSource(location string, opts SourceOptions) (Source, error) {
	return internalcontent.ResolveSource(location, opts)
}

// WithLogger sets the logger used for bootstrap and degraded reads.
func WithLogger(logger interfaces.Logger) StoreOption {
	return internalcontent.WithLogger(logger)
}

// WithClock overrides the time source used for default publish dates.
func WithClock(clock func() time.Time) StoreOption {
	return internalcontent.WithClock(clock)
}

// WithKeys overrides the durable store key names.
func WithKeys(keys Keys) StoreOption {
	return internalcontent.WithKeys(keys)
}

// ToCategorized attaches go-errors categories to store errors.
func ToCategorized(err error) error {
	return internalcontent.ToCategorized(err)
}

func String(value string) *string { return internalcontent.String(value) }
func Int(value int) *int          { return internalcontent.Int(value) }
func Bool(value bool) *bool       { return internalcontent.Bool(value) }
