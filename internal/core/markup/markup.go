// Package markup classifies contract text lines for the minimal bold-markup
// syntax the renderer understands. This is part of the Functional Core -
// classification is pure string work; measuring and placing runs stays in
// the renderer.
//
// The grammar, line by line:
//
//   - "**TEXT**" (the whole trimmed line delimited, non-empty inside) is a
//     section header.
//   - Any other line containing "**" splits into alternating regular/bold
//     runs.
//   - A line starting with "#" is a directive/comment and renders nothing.
//   - A blank line is fixed vertical spacing.
//   - Everything else is body text, word-wrapped by the renderer.
package markup

import "strings"

// Delimiter is the bold-markup delimiter.
const Delimiter = "**"

// Kind identifies how a line is rendered.
type Kind int

const (
	Body Kind = iota
	Header
	Inline
	Comment
	Blank
)

// Run is a contiguous styled text fragment on a single rendered line.
type Run struct {
	Text string
	Bold bool
}

// Line is one classified line of input.
type Line struct {
	Kind Kind
	Text string // header or body text; empty for other kinds
	Runs []Run  // populated for Inline lines only
}

// Classify determines how a raw input line renders. Classification order
// follows precedence: blank, header, inline, comment, body - a comment
// marker inside a line carrying bold delimiters does not suppress the runs.
func Classify(raw string) Line {
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "":
		return Line{Kind: Blank}
	case isHeader(trimmed):
		return Line{Kind: Header, Text: headerText(trimmed)}
	case strings.Contains(trimmed, Delimiter):
		return Line{Kind: Inline, Runs: SplitRuns(trimmed)}
	case strings.HasPrefix(trimmed, "#"):
		return Line{Kind: Comment}
	default:
		return Line{Kind: Body, Text: trimmed}
	}
}

// isHeader reports whether a trimmed line is a section header: delimited at
// both ends and non-empty in between.
func isHeader(s string) bool {
	if len(s) <= 2*len(Delimiter) {
		return false
	}
	if !strings.HasPrefix(s, Delimiter) || !strings.HasSuffix(s, Delimiter) {
		return false
	}
	return headerText(s) != ""
}

// headerText strips all delimiters from a header line.
func headerText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, Delimiter, ""))
}

// SplitRuns splits a line on the delimiter into alternating styled runs:
// even-indexed fragments (0-based) are regular, odd-indexed are bold. Empty
// fragments carry no text and are dropped; styling parity is decided before
// the drop, so "a **b** c" and "**b** c" both embolden "b".
func SplitRuns(s string) []Run {
	parts := strings.Split(s, Delimiter)
	runs := make([]Run, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		runs = append(runs, Run{Text: part, Bold: i%2 == 1})
	}
	return runs
}
