package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/postforge"
)

// Output is a parsed model reply for a post.
type Output struct {
	Title    string
	Sections map[string]string
	Tags     []string
}

// ParseOutput parses a model reply against tmpl. The reply must be a JSON
// object holding a non-empty "title" and text for every required section.
// Section text may sit at the top level or under "sections"; arrays become
// markdown bullet lists. Keys that are not template sections are ignored.
func ParseOutput(raw string, tmpl *postforge.Template) (*Output, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(stripFences(raw)), &obj); err != nil {
		return nil, postforge.Errorf(postforge.EVALIDATION, "model reply is not a JSON object: %v", err)
	}

	out := &Output{Sections: make(map[string]string, len(tmpl.Sections))}

	title, _ := obj["title"].(string)
	out.Title = strings.TrimSpace(title)
	if out.Title == "" {
		return nil, postforge.Errorf(postforge.EVALIDATION, "model reply has no title")
	}

	if tags, ok := obj["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				out.Tags = append(out.Tags, s)
			}
		}
	}

	src := obj
	if nested, ok := obj["sections"].(map[string]any); ok {
		src = nested
	}
	for _, s := range tmpl.Sections {
		text := sectionText(src[s.Name])
		if text == "" {
			if s.Required {
				return nil, postforge.Errorf(postforge.EVALIDATION, "model reply is missing required section %q", s.Name)
			}
			continue
		}
		out.Sections[s.Name] = text
	}
	return out, nil
}

// sectionText renders a JSON value as section markdown.
func sectionText(v any) string {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		var lines []string
		for _, item := range v {
			s := strings.TrimSpace(fmt.Sprint(item))
			if s != "" {
				lines = append(lines, "- "+s)
			}
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

// Body renders out as a markdown post and checks that every required
// section heading made it into the result. Content is looked up by section
// name (key_points) and rendered under the section title (## Key Points).
func Body(out *Output, tmpl *postforge.Template) (string, error) {
	body := postforge.ComposeBody(out.Title, tmpl.Sections, out.Sections)

	var titles []string
	for _, s := range tmpl.RequiredSections() {
		titles = append(titles, s.Title)
	}
	if missing := postforge.MissingHeadings(body, titles); len(missing) > 0 {
		return "", postforge.Errorf(postforge.EVALIDATION, "post is missing headings: %s", strings.Join(missing, ", "))
	}
	return body, nil
}

// ParseRevision parses the reviser's reply: a JSON array of sections, or an
// object holding one under "sections". Names must match tmpl exactly and in
// order. Required flags are carried over from tmpl; blank titles keep the
// current title.
func ParseRevision(raw string, tmpl *postforge.Template) ([]postforge.TemplateSection, error) {
	type section struct {
		Name        string `json:"name"`
		Title       string `json:"title"`
		Instruction string `json:"instruction"`
	}

	data := []byte(stripFences(raw))
	var proposed []section
	if err := json.Unmarshal(data, &proposed); err != nil {
		var wrapped struct {
			Sections []section `json:"sections"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Sections == nil {
			return nil, postforge.Errorf(postforge.EVALIDATION, "revision reply is not a JSON array of sections")
		}
		proposed = wrapped.Sections
	}

	if len(proposed) != len(tmpl.Sections) {
		return nil, postforge.Errorf(postforge.EVALIDATION, "revision has %d sections, template has %d", len(proposed), len(tmpl.Sections))
	}

	sections := make([]postforge.TemplateSection, len(proposed))
	for i, p := range proposed {
		cur := tmpl.Sections[i]
		if p.Name != cur.Name {
			return nil, postforge.Errorf(postforge.EVALIDATION, "revision section %d is %q, want %q", i, p.Name, cur.Name)
		}
		instruction := strings.TrimSpace(p.Instruction)
		if instruction == "" {
			return nil, postforge.Errorf(postforge.EVALIDATION, "revision section %q has no instruction", p.Name)
		}
		title := strings.TrimSpace(p.Title)
		if title == "" {
			title = cur.Title
		}
		sections[i] = postforge.TemplateSection{
			Name:        cur.Name,
			Title:       title,
			Instruction: instruction,
			Required:    cur.Required,
		}
	}
	return sections, nil
}

// stripFences removes a markdown code fence around a reply and any prose
// before the first or after the last JSON bracket.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
