package markdown

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-slug"
)

const (
	DefaultExcerptLength      = 150
	DefaultExcerptPlaceholder = "暂无摘要"
	DefaultIcon               = "📝"

	excerptEllipsis = "..."
	readTimeSuffix  = "分钟"
	cjkPerMinute    = 400
	wordsPerMinute  = 200
)

// Slug styles accepted by DeriverConfig.SlugStyle.
const (
	SlugStyleEncoded    = "encoded"
	SlugStyleNormalized = "normalized"
)

var (
	excerptFence    = regexp.MustCompile("(?s)```.*?```")
	excerptHeading  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	excerptImage    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	excerptLink     = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	excerptCode     = regexp.MustCompile("`([^`]+)`")
	excerptStrong   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	excerptEmphasis = regexp.MustCompile(`\*([^*]+)\*`)
)

// DeriverConfig tunes the derived article fields.
type DeriverConfig struct {
	ExcerptLength      int
	ExcerptPlaceholder string
	DefaultIcon        string
	// SlugStyle selects how titles become slugs. "encoded" (default) keeps
	// CJK runes as percent escapes; "normalized" transliterates through
	// go-slug and falls back to the encoded form when that yields nothing.
	SlugStyle string
}

// Deriver computes slug, excerpt, and read time for article bodies.
type Deriver struct {
	excerptLength int
	placeholder   string
	icon          string
	normalizer    slug.Normalizer
}

// NewDeriver returns a Deriver, filling zero config values with defaults.
func NewDeriver(cfg DeriverConfig) *Deriver {
	d := &Deriver{
		excerptLength: cfg.ExcerptLength,
		placeholder:   cfg.ExcerptPlaceholder,
		icon:          cfg.DefaultIcon,
	}
	if d.excerptLength <= 0 {
		d.excerptLength = DefaultExcerptLength
	}
	if d.placeholder == "" {
		d.placeholder = DefaultExcerptPlaceholder
	}
	if d.icon == "" {
		d.icon = DefaultIcon
	}
	if strings.EqualFold(strings.TrimSpace(cfg.SlugStyle), SlugStyleNormalized) {
		d.normalizer = slug.Default()
	}
	return d
}

// DefaultIcon returns the glyph used when an article has none.
func (d *Deriver) DefaultIcon() string {
	return d.icon
}

// Slug derives the URL slug for title using the configured style.
func (d *Deriver) Slug(title string) string {
	if d.normalizer != nil {
		if normalized, err := d.normalizer.Normalize(title); err == nil && normalized != "" {
			return normalized
		}
	}
	return encodedSlug(title)
}

// encodedSlug lowercases title and percent-encodes every non-ASCII letter,
// digit or mark (CJK included). Every other run of non [a-z0-9] characters,
// non-ASCII spaces and punctuation among them, collapses into one hyphen.
func encodedSlug(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		ascii := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !ascii && !encodable(r) {
			pendingHyphen = true
			continue
		}
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		if ascii {
			b.WriteRune(r)
			continue
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		for _, c := range buf[:n] {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func encodable(r rune) bool {
	if isCJK(r) {
		return true
	}
	return r >= utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r))
}

// Excerpt strips markdown markers from body and truncates the visible text.
func (d *Deriver) Excerpt(body string) string {
	text := excerptFence.ReplaceAllString(body, "")
	text = excerptHeading.ReplaceAllString(text, "")
	text = excerptImage.ReplaceAllString(text, "")
	text = excerptLink.ReplaceAllString(text, "$1")
	text = excerptCode.ReplaceAllString(text, "$1")
	text = excerptStrong.ReplaceAllString(text, "$1")
	text = excerptEmphasis.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(text)

	if text == "" {
		return d.placeholder
	}
	if utf8.RuneCountInString(text) > d.excerptLength {
		runes := []rune(text)
		return string(runes[:d.excerptLength]) + excerptEllipsis
	}
	return text
}

// ReadTime estimates reading minutes from CJK rune and word counts.
func (d *Deriver) ReadTime(body string) string {
	cjk := 0
	var rest strings.Builder
	for _, r := range body {
		if isCJK(r) {
			cjk++
			continue
		}
		rest.WriteRune(r)
	}
	words := len(strings.Fields(rest.String()))

	minutes := int(math.Ceil(float64(cjk)/cjkPerMinute + float64(words)/wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d%s", minutes, readTimeSuffix)
}

func isCJK(r rune) bool {
	return r >= '一' && r <= '龥'
}
