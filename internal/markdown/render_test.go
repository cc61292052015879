package markdown

import (
	"strings"
	"testing"
)

func TestSubsetRendererBlocks(t *testing.T) {
	r := NewSubsetRenderer()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "<p>文章内容为空</p>"},
		{"heading and paragraph", "# Hi\n\nSome *text*.", "<h1>Hi</h1>\n<p>Some <em>text</em>.</p>"},
		{"whitespace only", "  \n\n ", "<p>文章内容为空</p>"},
		{"headings", "# One\n## Two\n### Three\n#### Four", "<h1>One</h1>\n<h2>Two</h2>\n<h3>Three</h3>\n<p>#### Four</p>"},
		{"heading needs space", "#NoSpace", "<p>#NoSpace</p>"},
		{"paragraph per line", "first line\nsecond line\n\n\nthird", "<p>first line</p>\n<p>second line</p>\n<p>third</p>"},
		{"blockquote", "> quoted *text*", "<blockquote>quoted <em>text</em></blockquote>"},
		{"unordered list", "- one\n* two", "<ul>\n<li>one</li>\n<li>two</li>\n</ul>"},
		{"ordered list", "1. one\n2. two\n10. ten", "<ol>\n<li>one</li>\n<li>two</li>\n<li>ten</li>\n</ol>"},
		{"blank line splits list", "- a\n\n- b", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>"},
		{
			"mixed lists stay separate",
			"- a\n- b\n1. c\n2. d\n- e",
			"<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n<ol>\n<li>c</li>\n<li>d</li>\n</ol>\n<ul>\n<li>e</li>\n</ul>",
		},
		{
			"fenced code",
			"```go\nfunc main() { a := 1 * 2 * 3 }\n# not a heading\n```",
			"<pre><code class=\"language-go\">func main() { a := 1 * 2 * 3 }\n# not a heading</code></pre>",
		},
		{"fence without language", "```\n<b>x</b>\n```", "<pre><code>&lt;b&gt;x&lt;/b&gt;</code></pre>"},
		{"unterminated fence", "text\n```sh\necho hi", "<p>text</p>\n<pre><code class=\"language-sh\">echo hi</code></pre>"},
		{"single line fence", "```inline code```", "<pre><code>inline code</code></pre>"},
		{"standalone image", "![A cat](/img/cat.png)", `<img src="/img/cat.png" alt="A cat" loading="lazy" class="article-image">`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Render(tc.in); got != tc.want {
				t.Fatalf("Render(%q)\nwant: %q\ngot:  %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestSubsetRendererInline(t *testing.T) {
	r := NewSubsetRenderer()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"emphasis ordering",
			"**bold** and *italic* and ***both***",
			"<p><strong>bold</strong> and <em>italic</em> and <strong><em>both</em></strong></p>",
		},
		{
			"bold nested in italic",
			"*a **b** c*",
			"<p><em>a <strong>b</strong> c</em></p>",
		},
		{
			"unclosed bold inside italic",
			"*a **b c*",
			"<p><em>a </em><em>b c</em></p>",
		},
		{
			"image before link",
			"see ![alt](a.png) and [link](https://example.com)",
			`<p>see <img src="a.png" alt="alt" loading="lazy" class="article-image"> and <a href="https://example.com" target="_blank" rel="noopener noreferrer" class="article-link">link</a></p>`,
		},
		{
			"code hides markers",
			"use `*ptr` and `a < b`",
			`<p>use <code class="inline-code">*ptr</code> and <code class="inline-code">a &lt; b</code></p>`,
		},
		{
			"emphasis skips code",
			"*see `x*y` here*",
			`<p><em>see <code class="inline-code">x*y</code> here</em></p>`,
		},
		{
			"link text escaped url untouched",
			`[<b>](https://example.com/?a=1&b=2)`,
			`<p><a href="https://example.com/?a=1&b=2" target="_blank" rel="noopener noreferrer" class="article-link">&lt;b&gt;</a></p>`,
		},
		{
			"url quote escaped",
			`[x](https://e.com/"onmouseover="alert(1))`,
			`<p><a href="https://e.com/&quot;onmouseover=&quot;alert(1" target="_blank" rel="noopener noreferrer" class="article-link">x</a>)</p>`,
		},
		{"unclosed marker literal", "2 * 3", "<p>2 * 3</p>"},
		{"empty link text literal", "[](x)", "<p>[](x)</p>"},
		{"heading with emphasis", "## A **bold** title", "<h2>A <strong>bold</strong> title</h2>"},
		{"list item inline", "- item with `code`", "<ul>\n<li>item with <code class=\"inline-code\">code</code></li>\n</ul>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Render(tc.in); got != tc.want {
				t.Fatalf("Render(%q)\nwant: %q\ngot:  %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestSubsetRendererEscapesPlainText(t *testing.T) {
	r := NewSubsetRenderer()
	inputs := []string{
		`<script>alert("x")</script>`,
		"Tom & Jerry's <b>show</b>",
		"> <img src=x onerror=alert(1)>",
	}
	for _, in := range inputs {
		out := r.Render(in)
		stripped := strings.NewReplacer("<p>", "", "</p>", "", "<blockquote>", "", "</blockquote>", "").Replace(out)
		if strings.ContainsAny(stripped, "<>") {
			t.Fatalf("Render(%q) reintroduced markup: %q", in, out)
		}
	}

	if got := r.Render("Tom & Jerry's"); got != "<p>Tom &amp; Jerry&#39;s</p>" {
		t.Fatalf("unexpected escaping %q", got)
	}
}

func TestSubsetRendererCustomEmptyMarkup(t *testing.T) {
	r := NewSubsetRenderer(WithEmptyMarkup("<p>empty</p>"))
	if got := r.Render(""); got != "<p>empty</p>" {
		t.Fatalf("expected custom placeholder, got %q", got)
	}
	html, err := r.Parse([]byte("# Hi"))
	if err != nil || string(html) != "<h1>Hi</h1>" {
		t.Fatalf("Parse = %q, %v", html, err)
	}
}
