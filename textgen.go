package postforge

import (
	"context"
	"strings"
)

// Prompt is a request to a text-generation model.
type Prompt struct {
	System string
	User   string
}

// GenerateOptions tunes a single text-generation call.
type GenerateOptions struct {
	// Model overrides the provider's default model when set.
	Model       string
	Temperature *float32
	MaxTokens   int

	// JSON asks the provider to return a JSON document.
	JSON bool
}

// TextGenerator is the capability every model provider implements.
type TextGenerator interface {
	// GenerateText returns the model's reply to prompt.
	// Provider failures are EGENERATION errors, marked temporary for rate
	// limits and transient upstream faults. Authentication and content
	// policy rejections are never temporary.
	GenerateText(ctx context.Context, prompt Prompt, opts GenerateOptions) (string, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Agent is the configuration for one role played by the model: which
// model to use, its standing instructions and its sampling settings.
type Agent struct {
	Name         string
	Model        string
	Instructions []string
	Temperature  float32
	MaxTokens    int
}

// SystemPrompt renders the agent's instructions as a system prompt.
func (a Agent) SystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are the ")
	sb.WriteString(a.Name)
	sb.WriteString(".\n")
	for _, in := range a.Instructions {
		sb.WriteString("- ")
		sb.WriteString(in)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Options returns GenerateOptions for a JSON-producing call by this agent.
func (a Agent) Options() GenerateOptions {
	temp := a.Temperature
	return GenerateOptions{
		Model:       a.Model,
		Temperature: &temp,
		MaxTokens:   a.MaxTokens,
		JSON:        true,
	}
}

// Agents groups the roles used by the pipeline.
type Agents struct {
	Writer         Agent
	Editor         Agent
	TemplateEditor Agent
}

// DefaultAgents returns the standard roles. An empty model defers to the
// provider's default.
func DefaultAgents(model string) Agents {
	return Agents{
		Writer: Agent{
			Name:  "Content Generator",
			Model: model,
			Instructions: []string{
				"Write engaging blog posts from the source article provided.",
				"Follow the template sections exactly and keep a consistent tone.",
				"Write for the web: short paragraphs, plain language, markdown formatting inside sections.",
				"Reply with a single JSON object and nothing else.",
			},
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Editor: Agent{
			Name:  "Content Editor",
			Model: model,
			Instructions: []string{
				"Improve an existing blog post according to reader feedback.",
				"Keep every section and its intent; change only what the feedback asks for.",
				"Reply with a single JSON object and nothing else.",
			},
			Temperature: 0.5,
			MaxTokens:   4096,
		},
		TemplateEditor: Agent{
			Name:  "Template Manager",
			Model: model,
			Instructions: []string{
				"Revise blog post templates according to user feedback.",
				"Never rename, add, remove or reorder sections; only rewrite their instructions and titles.",
				"Reply with a single JSON object and nothing else.",
			},
			Temperature: 0.3,
			MaxTokens:   2048,
		},
	}
}
