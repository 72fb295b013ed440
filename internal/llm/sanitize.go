package llm

import (
	"regexp"
	"strings"
)

// fallbackResponse is returned whenever cleaning leaves nothing displayable.
const fallbackResponse = "I apologize, but I encountered an issue generating a response. Please try again."

// thinkingPatterns match paired "internal reasoning" markers that some
// models leak into their output. All are case-insensitive, non-greedy and
// span newlines.
var thinkingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<think>.*?</think>`),
	regexp.MustCompile(`(?is)<thinking>.*?</thinking>`),
	regexp.MustCompile(`(?is)\*thinks?\*.*?\*/thinks?\*`),
	regexp.MustCompile(`(?is)\[thinking\].*?\[/thinking\]`),
	regexp.MustCompile(`(?is)\[think\].*?\[/think\]`),
	regexp.MustCompile(`(?is)\(thinking\).*?\(/thinking\)`),
	regexp.MustCompile(`(?is)\(think\).*?\(/think\)`),
	regexp.MustCompile(`(?is)<!-- thinking -->.*?<!-- /thinking -->`),
	regexp.MustCompile(`(?is)<!-- think -->.*?<!-- /think -->`),
	regexp.MustCompile(`(?is)\*\*thinking\*\*.*?\*\*/thinking\*\*`),
	regexp.MustCompile(`(?is)\*\*think\*\*.*?\*\*/think\*\*`),
	regexp.MustCompile(`(?is)__thinking__.*?__/thinking__`),
	regexp.MustCompile(`(?is)__think__.*?__/think__`),
}

// thinkingLinePattern drops whole lines that start with a meta-reasoning
// prefix. Case-sensitive on purpose; these are the exact phrasings observed.
var thinkingLinePattern = regexp.MustCompile(`(?m)^(Let me think|I think|Thinking:|Think:|Internal thought:|Reasoning:).*$`)

// newlineRunPattern matches runs of 3 or more newlines (blank-ish lines in
// between included) for collapsing to a single blank line.
var newlineRunPattern = regexp.MustCompile(`\n[\t ]*\n(?:[\t ]*\n)+`)

// Sanitize strips model-internal reasoning markup from raw LLM output and
// normalizes whitespace. It is pure and idempotent: applying it to already
// sanitized text is a no-op. Input without markers passes through unchanged
// apart from whitespace normalization. An empty result is replaced by a
// fixed apology string.
func Sanitize(raw string) string {
	cleaned := raw

	for _, pattern := range thinkingPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	cleaned = thinkingLinePattern.ReplaceAllString(cleaned, "")

	cleaned = newlineRunPattern.ReplaceAllString(cleaned, "\n\n")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return fallbackResponse
	}
	return cleaned
}
