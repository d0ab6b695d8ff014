// Command earmark inspects, converts and compares EARMARK documents.
package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/FocuswithJustin/earmark/core/earmark"
	"github.com/FocuswithJustin/earmark/core/fetch"
	"github.com/FocuswithJustin/earmark/core/format"
	"github.com/FocuswithJustin/earmark/internal/config"
	"github.com/FocuswithJustin/earmark/internal/logging"

	// Register the built-in document formats
	_ "github.com/FocuswithJustin/earmark/internal/embedded"
)

const version = "0.4.0"

// CLI defines the command-line interface for earmark.
var CLI struct {
	// Global flags
	Config  string `name:"config" short:"c" help:"Configuration file (TOML)" type:"existingfile" env:"EARMARK_CONFIG"`
	NoColor bool   `name:"no-color" help:"Disable colored output"`

	Info     InfoCmd     `cmd:"" help:"Summarize a document"`
	Text     TextCmd     `cmd:"" help:"Print the text content of a document or node"`
	Convert  ConvertCmd  `cmd:"" help:"Convert a document between formats"`
	Create   CreateCmd   `cmd:"" help:"Create a document from a plain text file"`
	Formats  FormatsCmd  `cmd:"" help:"List supported formats"`
	Patterns PatternsCmd `cmd:"" help:"Classify elements into structural patterns"`
	Diff     DiffCmd     `cmd:"" help:"Compare two documents"`
	Check    CheckCmd    `cmd:"" help:"Verify the internal consistency of a document"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// Env is passed to every command.
type Env struct {
	Ctx    context.Context
	Out    io.Writer
	Config *config.Config

	fetcher fetch.Fetcher
}

// load reads path, detecting the format when name is empty. Documents
// share the fetcher described by the configuration.
func (e *Env) load(path, name string) (*earmark.Document, error) {
	return format.ReadFile(e.Ctx, path, name,
		earmark.WithFetcher(e.fetcher),
		earmark.WithLogger(logging.GetLogger()))
}

func newEnv(configPath string, out io.Writer) (*Env, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	return &Env{Ctx: context.Background(), Out: out, Config: cfg, fetcher: cfg.Fetcher()}, nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("earmark"),
		kong.Description("EARMARK - overlapping markup as a multi-parent graph"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if CLI.NoColor {
		color.NoColor = true
	}
	env, err := newEnv(CLI.Config, os.Stdout)
	ctx.FatalIfErrorf(err)
	env.Config.InitLogging()

	if err = ctx.Run(env); err != nil {
		logging.ErrorContext(env.Ctx, "command failed", "command", ctx.Command(), "error", err)
	}
	ctx.FatalIfErrorf(err)
}
