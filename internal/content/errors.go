package content

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrNotFound       = errors.New("content: record not found")
	ErrTitleRequired  = errors.New("content: title is required")
	ErrSlugExists     = errors.New("content: slug already exists")
	ErrInvalidFields  = errors.New("content: invalid article fields")
	ErrStoreRequired  = errors.New("content: durable store is required")
	ErrSourceLocation = errors.New("content: unsupported baseline location")
)

const (
	textCodeNotFound   = "CONTENT_NOT_FOUND"
	textCodeValidation = "CONTENT_VALIDATION_FAILED"
	textCodeConflict   = "CONTENT_SLUG_CONFLICT"
	textCodeStorage    = "CONTENT_STORAGE_FAILED"
)

// NotFoundError represents missing records from store lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func articleNotFound(key any) error {
	return &NotFoundError{Resource: "article", Key: fmt.Sprint(key)}
}

// ToCategorized attaches a go-errors category and text code to store errors so
// command and CLI boundaries can report them uniformly. Already categorised
// errors are returned unchanged.
func ToCategorized(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "content record not found").
			WithTextCode(textCodeNotFound)
	case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrInvalidFields):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content validation failed").
			WithTextCode(textCodeValidation)
	case errors.Is(err, ErrSlugExists):
		return goerrors.Wrap(err, goerrors.CategoryConflict, "content slug conflict").
			WithTextCode(textCodeConflict)
	default:
		return goerrors.Wrap(err, goerrors.CategoryInternal, "content storage failed").
			WithTextCode(textCodeStorage)
	}
}
