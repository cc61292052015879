package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/valarz/go-press/pkg/interfaces"
)

const frontMatterDelimiter = "---"

// keyValueFormat reads a `---` delimited block of `key: value` lines.
var keyValueFormat = frontmatter.NewFormat(frontMatterDelimiter, frontMatterDelimiter, unmarshalKeyValues)

// ParseFrontMatter extracts metadata and body from source. Documents without
// a metadata block yield empty metadata and the whole document as body. The
// returned flag is true when a block was opened but never closed or could
// not be decoded; such documents are returned body-only with empty metadata.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, bool, error) {
	meta := interfaces.FrontMatter{}

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, keyValueFormat)
	if err != nil {
		return interfaces.FrontMatter{}, bytes.TrimSpace(source), true, nil
	}

	malformed := false
	if len(meta) == 0 && len(body) == len(source) && opensBlock(source) {
		malformed = true
	}
	if malformed {
		meta = interfaces.FrontMatter{}
	}

	return meta, bytes.TrimSpace(body), malformed, nil
}

// BuildDocument assembles a Document from the supplied path, raw content,
// and file metadata. BodyHTML is left empty so callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, malformed, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
		Size:         int64(len(source)),
		Fingerprint:  Fingerprint(path, modified, int64(len(source))),
		Malformed:    malformed,
	}, nil
}

// Fingerprint identifies a revision of a source file.
func Fingerprint(path string, modified time.Time, size int64) string {
	return fmt.Sprintf("%s:%d:%d", path, modified.UnixMilli(), size)
}

func unmarshalKeyValues(data []byte, v any) error {
	target, ok := v.(*interfaces.FrontMatter)
	if !ok {
		return fmt.Errorf("frontmatter: unsupported target %T", v)
	}
	if *target == nil {
		*target = interfaces.FrontMatter{}
	}

	for line := range strings.SplitSeq(string(data), "\n") {
		key, value, found := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		(*target)[key] = strings.TrimSpace(value)
	}
	return nil
}

// opensBlock reports whether the first non-blank line is the delimiter.
func opensBlock(source []byte) bool {
	for _, line := range strings.Split(string(source), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		return trimmed == frontMatterDelimiter
	}
	return false
}
