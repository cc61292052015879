package markdown

import (
	"strings"
	"unicode/utf8"
)

// span is a parsed inline construct ending at byte offset end.
type span struct {
	end  int
	html string
}

var emphasisMarkers = []struct {
	marker string
	open   string
	close  string
}{
	{"***", "<strong><em>", "</em></strong>"},
	{"**", "<strong>", "</strong>"},
	{"*", "<em>", "</em>"},
}

// renderInline parses one line of text into inline markup. Images are tried
// before links, code spans before emphasis, and longer emphasis markers
// before shorter ones. Literal text is escaped.
func renderInline(text string) string {
	var out strings.Builder
	literalStart := 0

	flush := func(until int) {
		if until > literalStart {
			out.WriteString(escapeText(text[literalStart:until]))
		}
	}

	for i := 0; i < len(text); {
		s, ok := atomAt(text, i)
		if !ok && text[i] == '*' {
			s, ok = emphasisAt(text, i)
		}
		if ok {
			flush(i)
			out.WriteString(s.html)
			i = s.end
			literalStart = i
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	flush(len(text))
	return out.String()
}

// atomAt parses a construct whose content is never interpreted further:
// an image, a link, or a code span.
func atomAt(text string, i int) (span, bool) {
	switch text[i] {
	case '!':
		return imageAt(text, i)
	case '[':
		return linkAt(text, i)
	case '`':
		return codeAt(text, i)
	}
	return span{}, false
}

// imageAt matches ![alt](url) where alt may be empty and url may not.
func imageAt(text string, i int) (span, bool) {
	if !strings.HasPrefix(text[i:], "![") {
		return span{}, false
	}
	alt, url, end, ok := bracketTarget(text, i+2, true)
	if !ok {
		return span{}, false
	}
	return span{
		end:  end,
		html: `<img src="` + escapeURL(url) + `" alt="` + escapeText(alt) + `" loading="lazy" class="article-image">`,
	}, true
}

// linkAt matches [text](url) with non-empty text and url.
func linkAt(text string, i int) (span, bool) {
	label, url, end, ok := bracketTarget(text, i+1, false)
	if !ok {
		return span{}, false
	}
	return span{
		end:  end,
		html: `<a href="` + escapeURL(url) + `" target="_blank" rel="noopener noreferrer" class="article-link">` + escapeText(label) + `</a>`,
	}, true
}

// bracketTarget parses `label](target)` starting at the first label byte.
func bracketTarget(text string, start int, allowEmptyLabel bool) (string, string, int, bool) {
	closeLabel := strings.IndexByte(text[start:], ']')
	if closeLabel < 0 || (closeLabel == 0 && !allowEmptyLabel) {
		return "", "", 0, false
	}
	label := text[start : start+closeLabel]
	rest := start + closeLabel + 1
	if rest >= len(text) || text[rest] != '(' {
		return "", "", 0, false
	}
	closeTarget := strings.IndexByte(text[rest+1:], ')')
	if closeTarget <= 0 {
		return "", "", 0, false
	}
	target := text[rest+1 : rest+1+closeTarget]
	return label, target, rest + 1 + closeTarget + 1, true
}

// codeAt matches `code` with non-empty content.
func codeAt(text string, i int) (span, bool) {
	closing := strings.IndexByte(text[i+1:], '`')
	if closing <= 0 {
		return span{}, false
	}
	code := text[i+1 : i+1+closing]
	return span{
		end:  i + 1 + closing + 1,
		html: `<code class="inline-code">` + escapeText(code) + `</code>`,
	}, true
}

// emphasisAt tries ***, then **, then * at position i. The closing marker is
// the nearest one after at least one byte of content, skipping over atoms so
// markers inside code or links never close a span.
func emphasisAt(text string, i int) (span, bool) {
	for _, m := range emphasisMarkers {
		if !strings.HasPrefix(text[i:], m.marker) {
			continue
		}
		from := i + len(m.marker)
		closing := findClosing(text, from, m.marker)
		if closing < 0 {
			continue
		}
		return span{
			end:  closing + len(m.marker),
			html: m.open + renderInline(text[from:closing]) + m.close,
		}, true
	}
	return span{}, false
}

func findClosing(text string, from int, marker string) int {
	for j := from; j < len(text); {
		if j > from {
			if end, ok := nestedEmphasis(text, j, len(marker)); ok {
				j = end
				continue
			}
			if strings.HasPrefix(text[j:], marker) {
				return j
			}
		}
		if s, ok := atomAt(text, j); ok {
			j = s.end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[j:])
		j += size
	}
	return -1
}

// nestedEmphasis reports the end of a complete span opened at j by a marker
// longer than outer, so `*a **b** c*` keeps the inner bold intact.
func nestedEmphasis(text string, j, outer int) (int, bool) {
	for _, m := range emphasisMarkers {
		if len(m.marker) <= outer || !strings.HasPrefix(text[j:], m.marker) {
			continue
		}
		if closing := findClosing(text, j+len(m.marker), m.marker); closing >= 0 {
			return closing + len(m.marker), true
		}
	}
	return 0, false
}
