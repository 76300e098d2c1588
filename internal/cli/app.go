// Package cli implements the docroute command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"docroute/internal/bootstrap"
	"docroute/internal/config"
	"docroute/internal/observability/logging"
)

const envKey = "env"

// env is the per-invocation state built in the Before hook.
type env struct {
	app         *bootstrap.App
	logger      *slog.Logger
	concurrency int
	rulesPath   string
}

// NewApp builds the CLI. Output goes to stdout, logs to stderr.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "docroute",
		Usage: "segment multi-document PDFs and route each segment to an extractor",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rules", Usage: "rule set YAML (default: embedded)", EnvVars: []string{"DOCROUTE_RULES_PATH"}},
			&cli.IntFlag{Name: "max-pages", Usage: "page cap per document (0: configured default)"},
			&cli.StringFlag{Name: "rule-based", Usage: "comma-separated platforms with a rule-based extractor"},
			&cli.IntFlag{Name: "concurrency", Aliases: []string{"j"}, Usage: "documents processed in parallel (0: configured default)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Value: "warn"},
		},
		Before: setup,
		Commands: []*cli.Command{
			analyzeCommand(),
			classifyCommand(),
			planCommand(),
			exportCommand(),
			rulesCommand(),
		},
	}
}

func setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := c.String("rules"); v != "" {
		cfg.Rules.Path = v
	}
	if v := c.Int("max-pages"); v > 0 {
		cfg.Analysis.MaxPages = v
	}
	if c.IsSet("rule-based") {
		cfg.Routing.RuleBased = c.String("rule-based")
	}
	if v := c.Int("concurrency"); v > 0 {
		cfg.Analysis.Concurrency = v
	}
	cfg.Log.Level = c.String("log-level")
	cfg.Metrics.Enabled = false

	errW := c.App.ErrWriter
	if errW == nil {
		errW = os.Stderr
	}
	logger := logging.NewWithWriter(errW, "docroute-cli", config.LogConfig{Level: cfg.Log.Level, Format: "text"})

	e := &env{logger: logger, concurrency: cfg.Analysis.Concurrency, rulesPath: cfg.Rules.Path}
	if e.concurrency <= 0 {
		e.concurrency = 1
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[envKey] = e

	// "rules validate" must be able to report a broken rule file, so it skips bootstrapping.
	if c.Args().First() == "rules" {
		return nil
	}
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	e.app = app
	return nil
}

func envFrom(c *cli.Context) *env {
	e, _ := c.App.Metadata[envKey].(*env)
	return e
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func ctxOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

func failed(n, total int) error {
	return fmt.Errorf("%d of %d documents failed", n, total)
}
