package markdown

import (
	"strings"

	"github.com/valarz/go-press/pkg/interfaces"
)

const emptyBodyMarkup = "<p>文章内容为空</p>"

// SubsetRenderer renders the small markdown subset used by article bodies:
// headings 1-3, fenced and inline code, blockquotes, flat lists, links,
// images, emphasis, and one paragraph per remaining line. It is stateless
// and safe for concurrent use.
type SubsetRenderer struct {
	empty string
}

var (
	_ interfaces.MarkdownRenderer = (*SubsetRenderer)(nil)
	_ interfaces.MarkdownParser   = (*SubsetRenderer)(nil)
)

// RendererOption configures a SubsetRenderer.
type RendererOption func(*SubsetRenderer)

// WithEmptyMarkup overrides the markup returned for an empty body.
func WithEmptyMarkup(markup string) RendererOption {
	return func(r *SubsetRenderer) {
		if strings.TrimSpace(markup) != "" {
			r.empty = markup
		}
	}
}

// NewSubsetRenderer constructs the default renderer.
func NewSubsetRenderer(opts ...RendererOption) *SubsetRenderer {
	r := &SubsetRenderer{empty: emptyBodyMarkup}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render converts body into markup. Every input yields markup; an empty body
// yields the placeholder paragraph.
func (r *SubsetRenderer) Render(body string) string {
	if strings.TrimSpace(body) == "" {
		return r.emptyMarkup()
	}

	blocks := scanBlocks(body)
	out := make([]string, 0, len(blocks))
	for i := 0; i < len(blocks); i++ {
		block := blocks[i]
		switch block.kind {
		case blockUnordered, blockOrdered:
			j := i
			for j < len(blocks) && blocks[j].kind == block.kind {
				j++
			}
			out = append(out, renderList(block.kind, blocks[i:j]))
			i = j - 1
		default:
			out = append(out, renderBlock(block))
		}
	}
	if len(out) == 0 {
		return r.emptyMarkup()
	}
	return strings.Join(out, "\n")
}

// Parse satisfies interfaces.MarkdownParser.
func (r *SubsetRenderer) Parse(markdown []byte) ([]byte, error) {
	return []byte(r.Render(string(markdown))), nil
}

// ParseWithOptions satisfies interfaces.MarkdownParser. The subset grammar
// has no options; output is always escaped.
func (r *SubsetRenderer) ParseWithOptions(markdown []byte, _ interfaces.ParseOptions) ([]byte, error) {
	return r.Parse(markdown)
}

func (r *SubsetRenderer) emptyMarkup() string {
	if r == nil || r.empty == "" {
		return emptyBodyMarkup
	}
	return r.empty
}

func renderBlock(b block) string {
	switch b.kind {
	case blockHeading:
		tag := headingTags[b.level]
		return "<" + tag + ">" + renderInline(b.text) + "</" + tag + ">"
	case blockCode:
		open := "<pre><code>"
		if b.lang != "" {
			open = `<pre><code class="language-` + escapeText(b.lang) + `">`
		}
		return open + escapeText(b.text) + "</code></pre>"
	case blockQuote:
		return "<blockquote>" + renderInline(b.text) + "</blockquote>"
	case blockImage:
		return renderInline(b.text)
	default:
		return "<p>" + renderInline(b.text) + "</p>"
	}
}

func renderList(kind blockKind, items []block) string {
	tag := "ul"
	if kind == blockOrdered {
		tag = "ol"
	}
	var b strings.Builder
	b.WriteString("<" + tag + ">\n")
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(renderInline(item.text))
		b.WriteString("</li>\n")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

var headingTags = map[int]string{1: "h1", 2: "h2", 3: "h3"}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeText escapes & < > " and ' for insertion into markup.
func escapeText(s string) string {
	return htmlEscaper.Replace(s)
}

// escapeURL only escapes the attribute quote so a URL cannot break out of
// its attribute.
func escapeURL(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
