package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Classify Tests
// =============================================================================

func TestClassify_Blank(t *testing.T) {
	assert.Equal(t, Blank, Classify("").Kind)
	assert.Equal(t, Blank, Classify("   \t  ").Kind)
}

func TestClassify_Header(t *testing.T) {
	line := Classify("**1. PARTIES**")
	assert.Equal(t, Header, line.Kind)
	assert.Equal(t, "1. PARTIES", line.Text)
}

func TestClassify_HeaderTrimsSurroundingWhitespace(t *testing.T) {
	line := Classify("   **GOVERNING LAW**   ")
	assert.Equal(t, Header, line.Kind)
	assert.Equal(t, "GOVERNING LAW", line.Text)
}

func TestClassify_EmptyDelimitersNotAHeader(t *testing.T) {
	// "****" has nothing between the delimiters
	line := Classify("****")
	assert.NotEqual(t, Header, line.Kind)
}

func TestClassify_Inline(t *testing.T) {
	line := Classify("This **Agreement** is binding")
	assert.Equal(t, Inline, line.Kind)
	assert.Equal(t, []Run{
		{Text: "This ", Bold: false},
		{Text: "Agreement", Bold: true},
		{Text: " is binding", Bold: false},
	}, line.Runs)
}

func TestClassify_Comment(t *testing.T) {
	assert.Equal(t, Comment, Classify("# agent output follows").Kind)
	assert.Equal(t, Comment, Classify("  # indented directive").Kind)
}

func TestClassify_CommentWithDelimitersIsInline(t *testing.T) {
	// Bold delimiters take precedence over the comment marker
	line := Classify("# note **this**")
	assert.Equal(t, Inline, line.Kind)
}

func TestClassify_Body(t *testing.T) {
	line := Classify("The parties agree as follows.")
	assert.Equal(t, Body, line.Kind)
	assert.Equal(t, "The parties agree as follows.", line.Text)
}

// =============================================================================
// SplitRuns Tests
// =============================================================================

func TestSplitRuns_Alternation(t *testing.T) {
	runs := SplitRuns("a **b** c **d** e")
	assert.Equal(t, []Run{
		{Text: "a ", Bold: false},
		{Text: "b", Bold: true},
		{Text: " c ", Bold: false},
		{Text: "d", Bold: true},
		{Text: " e", Bold: false},
	}, runs)
}

func TestSplitRuns_LeadingBold(t *testing.T) {
	// The empty leading fragment carries the parity, not a run
	runs := SplitRuns("**Notice** period")
	assert.Equal(t, []Run{
		{Text: "Notice", Bold: true},
		{Text: " period", Bold: false},
	}, runs)
}

func TestSplitRuns_UnbalancedDelimiter(t *testing.T) {
	runs := SplitRuns("mid**way")
	assert.Equal(t, []Run{
		{Text: "mid", Bold: false},
		{Text: "way", Bold: true},
	}, runs)
}

func TestSplitRuns_NoDelimiters(t *testing.T) {
	runs := SplitRuns("plain")
	assert.Equal(t, []Run{{Text: "plain", Bold: false}}, runs)
}

func TestSplitRuns_OnlyDelimiters(t *testing.T) {
	assert.Empty(t, SplitRuns("****"))
}
