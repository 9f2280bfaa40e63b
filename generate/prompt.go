package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/postforge"
)

// maxSuggestedTags caps the tags the model is asked for.
const maxSuggestedTags = 5

// BuildPostPrompt builds the prompt that turns an article into a post
// following tmpl.
func BuildPostPrompt(agent postforge.Agent, tmpl *postforge.Template, article *postforge.Article, custom string) postforge.Prompt {
	var sb strings.Builder
	sb.WriteString("Write a blog post based on the source article below.\n\n")
	writeTemplate(&sb, tmpl)

	if len(article.Keywords) > 0 {
		fmt.Fprintf(&sb, "\nThe source page is tagged: %s\n", strings.Join(article.Keywords, ", "))
	}
	if custom = strings.TrimSpace(custom); custom != "" {
		fmt.Fprintf(&sb, "\nAdditional instructions from the user:\n%s\n", custom)
	}

	sb.WriteString("\nSource article:\n")
	fmt.Fprintf(&sb, "URL: %s\n", article.URL)
	if article.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", article.Title)
	}
	if article.Author != "" {
		fmt.Fprintf(&sb, "Author: %s\n", article.Author)
	}
	if article.PublishedAt != nil {
		fmt.Fprintf(&sb, "Published: %s\n", article.PublishedAt.Format("2006-01-02"))
	}
	sb.WriteString("\n")
	sb.WriteString(article.BodyText)
	sb.WriteString("\n")

	return postforge.Prompt{System: agent.SystemPrompt(), User: sb.String()}
}

// BuildImprovePrompt builds the prompt that rewrites post according to
// feedback, keeping the sections of tmpl.
func BuildImprovePrompt(agent postforge.Agent, tmpl *postforge.Template, post *postforge.BlogPost, feedback string) postforge.Prompt {
	var sb strings.Builder
	sb.WriteString("Improve the blog post below according to the reader feedback.\n\n")
	writeTemplate(&sb, tmpl)

	fmt.Fprintf(&sb, "\nReader feedback:\n%s\n", strings.TrimSpace(feedback))
	sb.WriteString("\nCurrent post:\n\n")
	sb.WriteString(post.Body)
	sb.WriteString("\n")

	return postforge.Prompt{System: agent.SystemPrompt(), User: sb.String()}
}

// writeTemplate describes the expected JSON reply.
func writeTemplate(sb *strings.Builder, tmpl *postforge.Template) {
	fmt.Fprintf(sb, "Template: %s\n", tmpl.Name)
	if tmpl.Description != "" {
		fmt.Fprintf(sb, "%s\n", tmpl.Description)
	}
	sb.WriteString("\nReply with a JSON object with these keys:\n")
	sb.WriteString("- \"title\": the post title\n")
	fmt.Fprintf(sb, "- \"tags\": up to %d short lowercase topic tags\n", maxSuggestedTags)
	sb.WriteString("- \"sections\": an object with one markdown string per section:\n")
	for _, s := range tmpl.Sections {
		req := "optional"
		if s.Required {
			req = "required"
		}
		fmt.Fprintf(sb, "  - %q (%s, heading %q): %s\n", s.Name, req, s.Title, s.Instruction)
	}
	sb.WriteString("Do not repeat section headings inside section text.\n")
}

// BuildRevisionPrompt builds the prompt asking the model to rewrite the
// section instructions of tmpl according to feedback.
func BuildRevisionPrompt(agent postforge.Agent, tmpl *postforge.Template, feedback string) postforge.Prompt {
	type section struct {
		Name        string `json:"name"`
		Title       string `json:"title"`
		Instruction string `json:"instruction"`
	}
	current := make([]section, len(tmpl.Sections))
	for i, s := range tmpl.Sections {
		current[i] = section{Name: s.Name, Title: s.Title, Instruction: s.Instruction}
	}
	data, _ := json.MarshalIndent(current, "", "  ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Revise the %q blog post template according to the user feedback.\n\n", tmpl.Name)
	fmt.Fprintf(&sb, "User feedback:\n%s\n\n", strings.TrimSpace(feedback))
	sb.WriteString("Current sections:\n")
	sb.Write(data)
	sb.WriteString("\n\nReply with a JSON array of the sections in the same order with the same ")
	sb.WriteString("\"name\" values. Rewrite \"instruction\" and, if useful, \"title\".\n")

	return postforge.Prompt{System: agent.SystemPrompt(), User: sb.String()}
}
