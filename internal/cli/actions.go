package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"docroute/internal/domain"
	"docroute/internal/report"
	"docroute/internal/rules"
	"docroute/internal/service"
)

var timeNow = time.Now

// Result is the per-file CLI output.
type Result struct {
	File     string              `json:"file"`
	Summary  string              `json:"summary,omitempty"`
	Analysis *domain.Analysis    `json:"analysis,omitempty"`
	Plan     *domain.RoutingPlan `json:"plan,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "profile and segment documents",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "summary", Usage: "print one summary line per file instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			return runBatch(c, false)
		},
	}
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "segment documents and route every segment",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "summary", Usage: "print one line per segment instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			return runBatch(c, true)
		},
	}
}

func classifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "label a piece of text",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "text to classify"},
			&cli.StringFlag{Name: "file", Usage: "read text from a file (.txt) instead"},
			&cli.StringFlag{Name: "filename", Usage: "filename hint"},
		},
		Action: func(c *cli.Context) error {
			e := envFrom(c)
			text, filename := c.String("text"), c.String("filename")
			if path := c.String("file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				text = string(data)
				if filename == "" {
					filename = path
				}
			}
			if text == "" && filename == "" {
				return fmt.Errorf("classify needs --text, --file or --filename: %w", domain.ErrInvalidRequest)
			}
			res, err := e.app.Service.Classify(ctxOf(c), text, filename)
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, res)
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write a routing report for documents",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv or xlsx"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default: derived from the first file)"},
		},
		Action: func(c *cli.Context) error {
			e := envFrom(c)
			format, err := report.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}
			results, err := process(c, e, true)
			if err != nil {
				return err
			}

			plans := make([]*domain.RoutingPlan, 0, len(results))
			var n int
			for _, r := range results {
				if r.Error != "" {
					n++
				}
				if r.Plan != nil {
					plans = append(plans, r.Plan)
				}
			}
			if len(plans) == 0 {
				return failed(n, len(results))
			}

			out := c.String("out")
			if out == "" {
				name := ""
				if plans[0].Analysis != nil {
					name = plans[0].Analysis.Filename
				}
				out = report.BuildFilename(name, format, timeNow())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := e.app.Service.Export(ctxOf(c), f, format, plans); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			e.logger.Info("export.written", "path", out, "documents", len(plans))
			fmt.Fprintln(c.App.Writer, out)
			if n > 0 {
				return failed(n, len(results))
			}
			return nil
		},
	}
}

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "inspect rule sets",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check a rule set file against the schema and cross-references",
				ArgsUsage: "[PATH]",
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						path = envFrom(c).rulesPath
					}
					rs, err := rules.Load(path)
					if err != nil {
						return err
					}
					name := path
					if name == "" {
						name = "embedded default"
					}
					fmt.Fprintf(c.App.Writer, "%s: ok (version %d, %d scored platforms)\n", name, rs.Version, len(rs.Classifier.Platforms))
					return nil
				},
			},
			{
				Name:  "dump",
				Usage: "print the embedded default rule set",
				Action: func(c *cli.Context) error {
					_, err := c.App.Writer.Write(rules.DefaultYAML())
					return err
				},
			},
		},
	}
}

// runBatch processes every FILE argument and prints results in argument order.
func runBatch(c *cli.Context, plan bool) error {
	e := envFrom(c)
	results, err := process(c, e, plan)
	if err != nil {
		return err
	}

	if c.Bool("summary") {
		printSummary(c, results, plan)
	} else if err := writeJSON(c.App.Writer, results); err != nil {
		return err
	}

	var n int
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	if n > 0 {
		return failed(n, len(results))
	}
	return nil
}

// process fans the files out over a bounded errgroup. Per-file failures are recorded in the
// Result; only cancellation aborts the batch.
func process(c *cli.Context, e *env, plan bool) ([]Result, error) {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s needs at least one FILE: %w", c.Command.Name, domain.ErrInvalidRequest)
	}

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctxOf(c))
	g.SetLimit(e.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = processOne(ctx, e.app.Service, path, plan)
			if results[i].Error != "" {
				e.logger.Warn("cli.document_failed", "file", path, "error", results[i].Error)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func processOne(ctx context.Context, svc service.AnalysisService, path string, plan bool) Result {
	res := Result{File: path}
	doc, err := LoadDocument(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	var a *domain.Analysis
	if doc.PDF != nil {
		if plan {
			res.Plan, err = svc.PlanPDF(ctx, doc.Filename, doc.PDF)
			if res.Plan != nil {
				a = res.Plan.Analysis
			}
		} else {
			a, err = svc.AnalyzePDF(ctx, doc.Filename, doc.PDF)
		}
	} else {
		input := &service.AnalyzeInput{Filename: doc.Filename, Pages: doc.Pages}
		if plan {
			res.Plan, err = svc.Plan(ctx, input)
			if res.Plan != nil {
				a = res.Plan.Analysis
			}
		} else {
			a, err = svc.Analyze(ctx, input)
		}
	}

	if !plan {
		res.Analysis = a
	}
	switch {
	case err != nil:
		res.Error = err.Error()
	case a != nil && a.Failed():
		res.Error = a.Error
	}
	if a != nil {
		res.Summary = a.Summary()
	}
	return res
}

func printSummary(c *cli.Context, results []Result, plan bool) {
	w := c.App.Writer
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s: error: %s\n", r.File, r.Error)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", r.File, r.Summary)
		if !plan || r.Plan == nil {
			continue
		}
		for _, s := range r.Plan.Segments {
			fmt.Fprintf(w, "  segment %d pages %s -> %s %s (%s)\n",
				s.SegmentIndex, joinPages(s.PageIndices), s.Decision.Label, s.Decision.Target, s.Decision.Route)
		}
	}
}

func joinPages(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = fmt.Sprint(idx + 1)
	}
	return strings.Join(parts, ",")
}
