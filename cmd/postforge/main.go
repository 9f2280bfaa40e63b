package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/postforge"
	pffs "github.com/fwojciec/postforge/fs"
	"github.com/fwojciec/postforge/gemini"
	"github.com/fwojciec/postforge/generate"
	"github.com/fwojciec/postforge/goquery"
	"github.com/fwojciec/postforge/htmltomarkdown"
	pfhttp "github.com/fwojciec/postforge/http"
	"github.com/fwojciec/postforge/openai"
	"github.com/fwojciec/postforge/readability"
	"github.com/fwojciec/postforge/rod"
	"github.com/fwojciec/postforge/scrape"
	pfslog "github.com/fwojciec/postforge/slog"
	"github.com/fwojciec/postforge/sqlite"
	"github.com/fwojciec/postforge/trafilatura"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; real environment variables still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: .env:", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher is closed with the program when set.
	Fetcher postforge.Fetcher

	// Services for end-to-end testing.
	PostService     postforge.PostService
	TemplateService postforge.TemplateService
	FeedbackService postforge.FeedbackService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("postforge"),
		kong.Description("Turn web articles into blog posts"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"db": defaultDBPath()},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'postforge --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Command()

	deps.Logger = newLogger(stderr, cli.Debug)
	if cmd == "serve" {
		if cli.Debug {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}
	if cli.VectorKey == "" {
		deps.Logger.Warn("POSTFORGE_VECTOR_KEY not set; vector search is disabled")
	}

	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set POSTFORGE_DB to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}
	defer m.Close()

	templates := sqlite.NewTemplateService(m.DB)
	if n, err := templates.SeedTemplates(ctx, postforge.DefaultTemplates()); err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	} else if n > 0 {
		deps.Logger.Info("seeded templates", "count", n)
	}

	m.PostService = sqlite.NewPostService(m.DB)
	m.TemplateService = templates
	m.FeedbackService = sqlite.NewFeedbackService(m.DB)
	deps.Posts = m.PostService
	deps.Templates = m.TemplateService
	deps.Feedback = m.FeedbackService

	switch cmd {
	case "serve", "generate <url>", "improve <id> <feedback>", "revise <template> <feedback>":
		model, err := m.textGenerator(ctx, &cli.Provider, stderr)
		if err != nil {
			return err
		}
		model = pfslog.NewLoggingTextGenerator(model, deps.Logger)
		agents := postforge.DefaultAgents(cli.Provider.Model)

		deps.Reviser = &generate.Reviser{
			Templates:   m.TemplateService,
			Model:       model,
			Agent:       agents.TemplateEditor,
			Retry:       postforge.DefaultRetryPolicy(),
			CallTimeout: cli.GenerateTimeout,
		}

		if cmd == "revise <template> <feedback>" {
			break
		}

		extractor, err := m.contentExtractor(cli, stderr, deps.Logger)
		if err != nil {
			return err
		}
		pipeline := &generate.Pipeline{
			Extractor:   extractor,
			Templates:   m.TemplateService,
			Posts:       m.PostService,
			Feedback:    m.FeedbackService,
			Model:       model,
			Agents:      agents,
			Retry:       postforge.DefaultRetryPolicy(),
			CallTimeout: cli.GenerateTimeout,
			OnStage:     pfslog.StageLogger(deps.Logger),
		}
		if tc, err := gemini.NewTokenCounter(gemini.TokenizerModel); err != nil {
			deps.Logger.Warn("token counting disabled", "err", err)
		} else {
			pipeline.Tokens = tc
		}
		deps.Generator = pfslog.NewLoggingGenerator(pipeline, deps.Logger)

	case "export <dir>":
		deps.Exporter = pffs.NewExporter(cli.Export.Dir, cli.Export.Name)
	}

	return kongCtx.Run(deps)
}

// textGenerator connects to the configured provider.
func (m *Main) textGenerator(ctx context.Context, p *ProviderFlags, stderr io.Writer) (postforge.TextGenerator, error) {
	provider, err := p.Resolve()
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set GEMINI_API_KEY or OPENAI_API_KEY. Get a Gemini key at https://aistudio.google.com/apikey")
		return nil, err
	}

	switch provider {
	case ProviderOpenAI:
		opts := []option.RequestOption{option.WithAPIKey(p.OpenAIKey)}
		if p.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(p.OpenAIBaseURL))
		}
		return openai.NewGenerator(p.Model, opts...), nil
	default:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewGenerator(client, p.Model), nil
	}
}

// contentExtractor builds the fetch and extraction chain.
func (m *Main) contentExtractor(cli *CLI, stderr io.Writer, logger *slog.Logger) (postforge.ContentExtractor, error) {
	var fetcher postforge.Fetcher
	if cli.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cli.FetchTimeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = pfhttp.NewFetcher(pfhttp.WithTimeout(cli.FetchTimeout))
	}
	m.Fetcher = fetcher

	return pfslog.NewLoggingContentExtractor(&scrape.Scraper{
		Fetcher:   pfslog.NewLoggingFetcher(fetcher, logger),
		Extractor: trafilatura.NewExtractor(),
		Fallback:  readability.NewExtractor(),
		Meta:      goquery.NewMetaReader(),
		Converter: htmltomarkdown.NewConverter(),
		Limiter:   scrape.NewHostLimiter(1.0),
		Retry:     postforge.DefaultRetryPolicy(),
	}, logger), nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "postforge.db"
	}
	dir := filepath.Join(home, ".postforge")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "postforge.db")
}
