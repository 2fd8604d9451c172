package ai

import (
	"fmt"
	"strings"
	"time"
)

// GenerationParams describes one article generation request.
type GenerationParams struct {
	Topic    string
	Length   int // length unit, roughly 150 words each
	Style    string
	Keywords string // optional, comma-delimited
}

// Snippet is a single research result fed into the prompt.
type Snippet struct {
	Title   string
	Snippet string
}

// styleInstructions maps a style name to its tone instruction. Adding a
// style is a data change here, not a code change.
var styleInstructions = map[string]string{
	"academic":     "Write in a formal, objective tone with thorough analysis and precise language. Include scholarly references where appropriate.",
	"friendly":     "Write in a warm, conversational tone that feels like a friend explaining the topic in an approachable way.",
	"entertaining": "Write with humor, engaging stories or examples, and a lively tone that keeps the reader interested.",
	"serious":      "Write with a professional, authoritative tone focusing on facts and insights without casual language.",
}

// defaultStyle is used when the requested style is not recognized. The
// fallback is silent: an unknown style is not an error.
const defaultStyle = "friendly"

// wordsPerLengthUnit converts a length unit into an approximate word count.
const wordsPerLengthUnit = 150

// BuildPrompt composes the system prompt for an article generation request.
// It is pure string composition; the current date is embedded so generated
// content can reference recency.
func BuildPrompt(p GenerationParams, research []Snippet) string {
	return buildPrompt(p, research, time.Now())
}

func buildPrompt(p GenerationParams, research []Snippet, now time.Time) string {
	stylePrompt, ok := styleInstructions[strings.ToLower(p.Style)]
	if !ok {
		stylePrompt = styleInstructions[defaultStyle]
	}

	var keywordsPrompt string
	if p.Keywords != "" {
		terms := strings.Split(p.Keywords, ",")
		for i, term := range terms {
			terms[i] = strings.TrimSpace(term)
		}
		keywordsPrompt = fmt.Sprintf(
			"The article must incorporate the following keywords for SEO purposes: %s. Make sure these are integrated naturally into the content.",
			strings.Join(terms, ", "),
		)
	}

	var researchPrompt string
	if len(research) > 0 {
		var rb strings.Builder
		rb.WriteString("Use the following research information to enrich your article:\n\n")
		for _, r := range research {
			fmt.Fprintf(&rb, "- %s: %s\n", r.Title, r.Snippet)
		}
		rb.WriteString("\nIncorporate this information naturally and cite sources where appropriate.")
		researchPrompt = rb.String()
	}

	wordCount := p.Length * wordsPerLengthUnit

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional blog writer creating an article on the topic: %q.\n", p.Topic)
	fmt.Fprintf(&b, "Today's date is %s, so ensure content is contextually relevant.\n\n", now.Format("January 02, 2006"))
	b.WriteString(stylePrompt)
	b.WriteString("\n\n")
	if keywordsPrompt != "" {
		b.WriteString(keywordsPrompt)
		b.WriteString("\n\n")
	}
	if researchPrompt != "" {
		b.WriteString(researchPrompt)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "The article should be approximately %d words in length.\n\n", wordCount)
	b.WriteString("Structure the article with:\n")
	b.WriteString("1. An engaging title\n")
	b.WriteString("2. Introduction\n")
	b.WriteString("3. Multiple subtopics with appropriate headings\n")
	b.WriteString("4. Conclusion\n\n")
	b.WriteString("Format the content using markdown for headings and other structural elements.")

	return b.String()
}
