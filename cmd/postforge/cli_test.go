package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/postforge"
	main "github.com/fwojciec/postforge/cmd/postforge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"serve", "generate", "improve", "posts", "templates", "revise", "export"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"db": "test.db"},
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range commands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"--help", "-h", "help"} {
		t.Run(arg, func(t *testing.T) {
			t.Parallel()

			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}

			err := main.NewMain().Run(context.Background(), []string{arg}, stdout, stderr)
			require.NoError(t, err)

			helpOutput := stdout.String()
			for _, cmd := range commands {
				assert.Contains(t, helpOutput, cmd)
			}
			assert.Contains(t, helpOutput, "Usage:")
		})
	}
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{}, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_TemplatesSeedsDatabase(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{"--db", dbPath, "templates"}, stdout, stderr)
	require.NoError(t, err)

	for _, tmpl := range postforge.DefaultTemplates() {
		assert.Contains(t, stdout.String(), tmpl.ID)
	}
	assert.FileExists(t, dbPath)
}

func TestMain_Run_UnknownProvider(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(),
		[]string{"--db", dbPath, "--provider", "bogus", "generate", "https://example.com/a"}, stdout, stderr)

	require.Error(t, err)
	assert.Equal(t, postforge.EINVALID, postforge.ErrorCode(err))
	assert.Contains(t, stderr.String(), "Hint:")
}

func TestProviderFlags_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flags   main.ProviderFlags
		want    string
		wantErr bool
	}{
		{name: "gemini key only", flags: main.ProviderFlags{GeminiKey: "g"}, want: main.ProviderGemini},
		{name: "openai key only", flags: main.ProviderFlags{OpenAIKey: "o"}, want: main.ProviderOpenAI},
		{name: "both keys prefer gemini", flags: main.ProviderFlags{GeminiKey: "g", OpenAIKey: "o"}, want: main.ProviderGemini},
		{name: "explicit openai", flags: main.ProviderFlags{Name: "openai", GeminiKey: "g", OpenAIKey: "o"}, want: main.ProviderOpenAI},
		{name: "explicit provider without key", flags: main.ProviderFlags{Name: "openai", GeminiKey: "g"}, wantErr: true},
		{name: "no keys", flags: main.ProviderFlags{}, wantErr: true},
		{name: "unknown provider", flags: main.ProviderFlags{Name: "claude", GeminiKey: "g"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.flags.Resolve()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, postforge.EINVALID, postforge.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
