package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/postforge"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Posts     postforge.PostService
	Templates postforge.TemplateService
	Feedback  postforge.FeedbackService
	Generator postforge.Generator
	Reviser   postforge.Reviser
	Exporter  postforge.PostExporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB              string        `name:"db" env:"POSTFORGE_DB" default:"${db}" help:"SQLite database path"`
	Debug           bool          `env:"POSTFORGE_DEBUG" help:"Log at debug level"`
	Browser         bool          `env:"POSTFORGE_BROWSER" help:"Fetch pages with headless Chrome"`
	FetchTimeout    time.Duration `env:"POSTFORGE_FETCH_TIMEOUT" default:"15s" help:"Timeout per page fetch"`
	GenerateTimeout time.Duration `env:"POSTFORGE_GENERATE_TIMEOUT" default:"90s" help:"Timeout per model call"`
	VectorKey       string        `name:"vector-key" env:"POSTFORGE_VECTOR_KEY" help:"Vector search API key (unused)"`

	Provider ProviderFlags `embed:""`

	Serve     ServeCmd     `cmd:"" help:"Serve the web UI and JSON API"`
	Generate  GenerateCmd  `cmd:"" help:"Generate a blog post from a URL"`
	Improve   ImproveCmd   `cmd:"" help:"Rewrite a post from feedback"`
	Posts     PostsCmd     `cmd:"" help:"List stored posts"`
	Templates TemplatesCmd `cmd:"" help:"List templates"`
	Revise    ReviseCmd    `cmd:"" help:"Revise a template from feedback"`
	Export    ExportCmd    `cmd:"" help:"Export posts as markdown files"`
}

// Text generation providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ProviderFlags selects and configures the text generation provider.
type ProviderFlags struct {
	Name          string `name:"provider" env:"POSTFORGE_PROVIDER" help:"Text generation provider (gemini or openai)"`
	Model         string `env:"POSTFORGE_MODEL" help:"Model name (provider default if empty)"`
	GeminiKey     string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	OpenAIKey     string `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIBaseURL string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible API base URL"`
}

// Resolve returns the provider to use. Without an explicit choice the first
// provider with a key wins, Gemini before OpenAI.
func (p *ProviderFlags) Resolve() (string, error) {
	switch p.Name {
	case ProviderGemini:
		if p.GeminiKey == "" {
			return "", postforge.Errorf(postforge.EINVALID, "GEMINI_API_KEY not set")
		}
		return ProviderGemini, nil
	case ProviderOpenAI:
		if p.OpenAIKey == "" {
			return "", postforge.Errorf(postforge.EINVALID, "OPENAI_API_KEY not set")
		}
		return ProviderOpenAI, nil
	case "":
		switch {
		case p.GeminiKey != "":
			return ProviderGemini, nil
		case p.OpenAIKey != "":
			return ProviderOpenAI, nil
		}
		return "", postforge.Errorf(postforge.EINVALID, "no API key set; set GEMINI_API_KEY or OPENAI_API_KEY")
	default:
		return "", postforge.Errorf(postforge.EINVALID, "unknown provider %q", p.Name)
	}
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"POSTFORGE_ADDR" default:":8080" help:"Listen address"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	URL          string   `arg:"" help:"Article URL"`
	Template     string   `short:"t" default:"default" help:"Template ID"`
	Tags         []string `short:"g" name:"tag" help:"Tag to attach (repeatable)"`
	Instructions string   `short:"i" help:"Extra instructions for the writer"`
}

// ImproveCmd is the "improve" subcommand.
type ImproveCmd struct {
	ID       string `arg:"" help:"Post ID"`
	Feedback string `arg:"" help:"What to change"`
}

// PostsCmd is the "posts" subcommand.
type PostsCmd struct {
	Status string `short:"s" enum:",draft,published" default:"" help:"Filter by status"`
	Tag    string `help:"Filter by tag"`
	Query  string `short:"q" help:"Search title and body"`
	Limit  int    `short:"n" default:"20" help:"Maximum posts to list"`
}

// TemplatesCmd is the "templates" subcommand.
type TemplatesCmd struct{}

// ReviseCmd is the "revise" subcommand.
type ReviseCmd struct {
	Template string `arg:"" help:"Template ID"`
	Feedback string `arg:"" help:"What to change in the template"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir    string `arg:"" help:"Base directory"`
	Name   string `default:"posts" help:"Output directory name inside the base directory"`
	Status string `short:"s" enum:",draft,published" default:"" help:"Only export posts with this status"`
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %s\n", postforge.ErrorMessage(err))
}
