package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_RemovesThinkSpans(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"angle tags", "Hello.<think>secret reasoning here</think> How are you?"},
		{"angle tags long form", "Hello.<thinking>secret reasoning here</thinking> How are you?"},
		{"angle tags uppercase", "Hello.<THINK>secret reasoning here</THINK> How are you?"},
		{"bracket tags", "Hello.[thinking]secret reasoning here[/thinking] How are you?"},
		{"bracket tags short form", "Hello.[think]secret reasoning here[/think] How are you?"},
		{"paren tags", "Hello.(thinking)secret reasoning here(/thinking) How are you?"},
		{"asterisk emphasis", "Hello.*think*secret reasoning here*/think* How are you?"},
		{"double asterisk", "Hello.**thinking**secret reasoning here**/thinking** How are you?"},
		{"underscore emphasis", "Hello.__think__secret reasoning here__/think__ How are you?"},
		{"html comment", "Hello.<!-- thinking -->secret reasoning here<!-- /thinking --> How are you?"},
		{"spans newlines", "Hello.<think>secret\nreasoning\nhere</think> How are you?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			assert.NotContains(t, got, "secret")
			assert.NotContains(t, got, "reasoning")
			assert.Contains(t, got, "Hello.")
			assert.Contains(t, got, "How are you?")
		})
	}
}

func TestSanitize_RemovesMultipleSpans(t *testing.T) {
	input := "<think>one</think>First part.\n[thinking]two[/thinking]\nSecond part.<thinking>three</thinking>"
	got := Sanitize(input)
	assert.Equal(t, "First part.\n\nSecond part.", got)
}

func TestSanitize_DropsReasoningPrefixLines(t *testing.T) {
	input := "Thinking: about what to say\nThat sounds really difficult.\nReasoning: user seems sad\nWould you like to talk about it?"
	got := Sanitize(input)
	assert.NotContains(t, got, "about what to say")
	assert.NotContains(t, got, "user seems sad")
	assert.Contains(t, got, "That sounds really difficult.")
	assert.Contains(t, got, "Would you like to talk about it?")
}

func TestSanitize_PrefixMatchIsCaseSensitive(t *testing.T) {
	// Only the exact prefixes are dropped; a lowercase variant is content.
	got := Sanitize("thinking: this stays\nSo does this.")
	assert.Contains(t, got, "thinking: this stays")
}

func TestSanitize_NoMarkersPassesThrough(t *testing.T) {
	got := Sanitize("  You're not alone in this.\n\n\n\nSmall steps count.  ")
	assert.Equal(t, "You're not alone in this.\n\nSmall steps count.", got)
}

func TestSanitize_CollapsesNewlineRuns(t *testing.T) {
	got := Sanitize("a\n \n \nb\n\n\n\n\nc")
	assert.Equal(t, "a\n\nb\n\nc", got)
}

func TestSanitize_EmptyResultFallsBack(t *testing.T) {
	assert.Equal(t, fallbackResponse, Sanitize(""))
	assert.Equal(t, fallbackResponse, Sanitize("   \n\n  "))
	assert.Equal(t, fallbackResponse, Sanitize("<think>only reasoning, nothing else</think>"))
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello.<think>hidden</think> How are you?",
		"Plain response, nothing to strip.",
		"Thinking: gone\nKept line.\n\n\n\nAnother kept line.",
		"",
		"<thinking>everything stripped</thinking>",
	}
	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), "sanitize should be idempotent for %q", input)
	}
}
