package postforge

import (
	"strings"
	"unicode"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// ComposeBody renders a post as markdown: the title as H1 followed by one
// H2 per template section in template order. Sections without content are
// skipped.
func ComposeBody(title string, sections []TemplateSection, content map[string]string) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n")
	for _, s := range sections {
		text := strings.TrimSpace(content[s.Name])
		if text == "" {
			continue
		}
		sb.WriteString("\n## ")
		sb.WriteString(s.Title)
		sb.WriteString("\n\n")
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// CountWords counts runs of letters and digits.
func CountWords(s string) int {
	return len(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}))
}

// ReadingTime estimates reading minutes for a word count, at least one.
func ReadingTime(words int) int {
	return max(1, words/WordsPerMinute)
}

// NormalizeTags trims, lowercases and de-duplicates tags, dropping blanks.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
