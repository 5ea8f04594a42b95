package render

import (
	"regexp"
	"strings"

	"github.com/vbonduro/plantcare/internal/ai"
)

// Kind is the display class of one line of chat output.
type Kind string

const (
	KindSectionTitle     Kind = "section-title"
	KindSubsectionHeader Kind = "subsection-header"
	KindBullet           Kind = "bullet"
	KindTip              Kind = "tip"
	KindWarning          Kind = "warning"
	KindConfirmation     Kind = "confirmation"
	KindNumbered         Kind = "numbered"
	KindDivider          Kind = "divider"
	KindParagraph        Kind = "paragraph"
)

// Segment is one classified line. Indent counts the leading whitespace runes
// stripped before classification.
type Segment struct {
	Kind   Kind
	Text   string
	Indent int
}

type rule struct {
	kind  Kind
	match func(line string) bool
}

var numberedPattern = regexp.MustCompile(`^\d+\.`)

func hasPrefix(prefix string) func(string) bool {
	return func(line string) bool { return strings.HasPrefix(line, prefix) }
}

func isSubsectionHeader(line string) bool {
	for _, kw := range ai.SectionKeywords {
		if strings.HasPrefix(line, kw+":") {
			return true
		}
	}
	return false
}

func isDivider(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 3 && strings.Trim(line, "-") == ""
}

// rules are evaluated top to bottom; the first match wins. Anything left over
// is a paragraph.
var rules = []rule{
	{KindSectionTitle, hasPrefix(ai.GlyphPin)},
	{KindSubsectionHeader, isSubsectionHeader},
	{KindBullet, hasPrefix(ai.GlyphBullet)},
	{KindTip, hasPrefix(ai.GlyphTip)},
	{KindWarning, hasPrefix(ai.GlyphWarning)},
	{KindConfirmation, hasPrefix(ai.GlyphCheck)},
	{KindNumbered, numberedPattern.MatchString},
	{KindDivider, isDivider},
}

// ClassifyLine returns the kind of a single line.
func ClassifyLine(line string) Kind {
	trimmed := strings.TrimLeft(strings.TrimRight(line, "\r"), " \t")
	for _, r := range rules {
		if r.match(trimmed) {
			return r.kind
		}
	}
	return KindParagraph
}

// Classify splits text into lines and classifies each one. Every input line
// yields exactly one segment, in order.
func Classify(text string) []Segment {
	lines := strings.Split(text, "\n")
	segments := make([]Segment, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		segments = append(segments, Segment{
			Kind:   ClassifyLine(line),
			Text:   strings.TrimRightFunc(trimmed, isSpace),
			Indent: len([]rune(line)) - len([]rune(trimmed)),
		})
	}
	return segments
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// Span is a run of text inside a segment, optionally bold.
type Span struct {
	Text string
	Bold bool
}

// Emphasis splits text on ** markers. An unmatched trailing marker is kept
// as literal text.
func Emphasis(text string) []Span {
	parts := strings.Split(text, "**")
	if len(parts)%2 == 0 {
		last := len(parts) - 1
		parts[last-1] = parts[last-1] + "**" + parts[last]
		parts = parts[:last]
	}
	spans := make([]Span, 0, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		spans = append(spans, Span{Text: p, Bold: i%2 == 1})
	}
	return spans
}
