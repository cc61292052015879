package markdown

import (
	"strings"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockCode
	blockQuote
	blockUnordered
	blockOrdered
	blockImage
)

// block is one line-typed node produced by the scanner. Code blocks span
// several source lines; every other kind maps to a single line.
type block struct {
	kind  blockKind
	level int
	lang  string
	text  string
}

const fence = "```"

// scanBlocks splits body into typed blocks. Blank lines are dropped. Fenced
// code is recognised before any other construct, so markers inside code are
// never interpreted.
func scanBlocks(body string) []block {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")

	blocks := make([]block, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, fence) {
			code, consumed := scanFence(lines, i)
			blocks = append(blocks, code)
			i += consumed - 1
			continue
		}

		blocks = append(blocks, classifyLine(line))
	}
	return blocks
}

// scanFence reads a fenced block starting at lines[start] and returns it with
// the number of lines consumed. An unterminated fence runs to the end.
func scanFence(lines []string, start int) (block, int) {
	opening := strings.TrimSpace(lines[start])
	info := strings.TrimPrefix(opening, fence)

	// Single line form: ```code```
	if len(info) > len(fence) && strings.HasSuffix(info, fence) {
		inner := strings.TrimSuffix(info, fence)
		return block{kind: blockCode, text: strings.TrimSpace(inner)}, 1
	}

	lang := fenceLanguage(info)
	var content []string
	consumed := 1
	for j := start + 1; j < len(lines); j++ {
		consumed++
		if strings.HasPrefix(strings.TrimSpace(lines[j]), fence) {
			return block{kind: blockCode, lang: lang, text: trimCode(content)}, consumed
		}
		content = append(content, strings.TrimRight(lines[j], "\r"))
	}
	return block{kind: blockCode, lang: lang, text: trimCode(content)}, consumed
}

// fenceLanguage returns the leading word of the info string when it is made
// of letters, digits, and underscores.
func fenceLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	for _, r := range fields[0] {
		if !isWordRune(r) {
			return ""
		}
	}
	return fields[0]
}

func trimCode(lines []string) string {
	code := strings.Join(lines, "\n")
	code = strings.TrimLeft(code, "\n")
	return strings.TrimRight(code, " \t\n")
}

func classifyLine(line string) block {
	if level, text, ok := headingLine(line); ok {
		return block{kind: blockHeading, level: level, text: text}
	}
	if text, ok := strings.CutPrefix(line, "> "); ok && strings.TrimSpace(text) != "" {
		return block{kind: blockQuote, text: strings.TrimSpace(text)}
	}
	if text, ok := unorderedItem(line); ok {
		return block{kind: blockUnordered, text: text}
	}
	if text, ok := orderedItem(line); ok {
		return block{kind: blockOrdered, text: text}
	}
	if n, ok := imageAt(line, 0); ok && n.end == len(line) {
		return block{kind: blockImage, text: line}
	}
	return block{kind: blockParagraph, text: line}
}

// headingLine matches one to three hashes followed by a space and text.
func headingLine(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 3 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	text := strings.TrimSpace(line[level+1:])
	if text == "" {
		return 0, "", false
	}
	return level, text, true
}

func unorderedItem(line string) (string, bool) {
	if len(line) < 3 || (line[0] != '*' && line[0] != '-') || line[1] != ' ' {
		return "", false
	}
	text := strings.TrimSpace(line[2:])
	return text, text != ""
}

func orderedItem(line string) (string, bool) {
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits+1 >= len(line) || line[digits] != '.' || line[digits+1] != ' ' {
		return "", false
	}
	text := strings.TrimSpace(line[digits+2:])
	return text, text != ""
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
