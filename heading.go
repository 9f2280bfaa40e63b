package postforge

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
)

// Heading represents a heading in a markdown document.
type Heading struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ExtractHeadings parses markdown and returns all headings (H1-H6).
// Anchors are URL-safe; duplicates get numeric suffixes.
func ExtractHeadings(markdown string) []Heading {
	if markdown == "" {
		return nil
	}

	// # inside fenced code is not a heading
	cleaned := codeBlockRe.ReplaceAllString(markdown, "")

	matches := headingRe.FindAllStringSubmatch(cleaned, -1)
	if len(matches) == 0 {
		return nil
	}

	headings := make([]Heading, 0, len(matches))
	anchorCounts := make(map[string]int)

	for _, match := range matches {
		title := strings.TrimSpace(match[2])
		base := Slug(title)

		anchor := base
		if count, exists := anchorCounts[base]; exists {
			anchor = base + "-" + strconv.Itoa(count)
			anchorCounts[base]++
		} else {
			anchorCounts[base] = 1
		}

		headings = append(headings, Heading{
			Level:  len(match[1]),
			Title:  title,
			Anchor: anchor,
		})
	}

	return headings
}

// MissingHeadings returns the titles that do not appear as a heading in
// markdown, compared by slug.
func MissingHeadings(markdown string, titles []string) []string {
	present := make(map[string]bool)
	for _, h := range ExtractHeadings(markdown) {
		present[Slug(h.Title)] = true
	}
	var missing []string
	for _, t := range titles {
		if !present[Slug(t)] {
			missing = append(missing, t)
		}
	}
	return missing
}

// Slug lowercases s, joins words with hyphens and drops other characters.
func Slug(s string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' || r == '_' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
