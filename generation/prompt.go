package generation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonwraymond/storycache/cache"
)

const systemPrompt = "You are the narrator of an interactive story. " +
	"Write vivid, concise prose in the second person and never break character."

// BuildSegmentPrompt asks for the next segment of the story described by sc.
// The user id is never included.
func BuildSegmentPrompt(sc cache.StoryContext) string {
	var b strings.Builder
	b.WriteString("Write the next scene of the story in one or two short paragraphs.\n\n")
	writeContext(&b, sc)
	return b.String()
}

// BuildChoicesPrompt asks for n numbered choices that follow segment.
func BuildChoicesPrompt(sc cache.StoryContext, segment string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Offer the reader exactly %d choices for what to do next.\n", n)
	b.WriteString("Answer with a numbered list, one short imperative sentence per line, and nothing else.\n\n")
	writeContext(&b, sc)
	b.WriteString("\n**Scene:**\n")
	b.WriteString(strings.TrimSpace(segment))
	b.WriteString("\n")
	return b.String()
}

func writeContext(b *strings.Builder, sc cache.StoryContext) {
	for _, f := range [...]struct{ label, value string }{
		{"Genre", sc.Genre},
		{"Tone", sc.Tone},
		{"Main character", sc.Character},
		{"Setting", sc.Setting},
	} {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(b, "**%s:** %s\n", f.label, f.value)
	}
}

var listMarker = regexp.MustCompile(`^(?:\d+\s*[.):-]|[-*•])\s*`)

// ParseChoices extracts an ordered list of choices from a completion.
// Numbering and bullet markers are stripped, blank lines skipped, and at
// most max entries returned (max <= 0 means no limit).
func ParseChoices(text string, max int) []string {
	var choices []string
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		line = strings.Trim(line, `"`)
		if line == "" {
			continue
		}
		choices = append(choices, line)
		if max > 0 && len(choices) == max {
			break
		}
	}
	return choices
}
