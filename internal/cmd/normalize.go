package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/normalize"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize KIND [FILE|-]...",
	Short: "Normalize raw tool output into a structured result",
	Long: `Normalize the raw output of a developer tool into a structured result.

KIND is a normalizer kind, one of its aliases, or a tool name from the
catalog. Each FILE is normalized independently and printed as its own
document, in argument order. Without FILE, standard input is read.

Every result carries "success" and, when the input could not be reconciled
with the expected format, a "diagnostic". An empty input is a clean result.`,
	Example: `  ruff check . | toolwire normalize ruff
  git log --format='%H|%an|%ad|%s' | toolwire normalize git-log
  toolwire normalize lsp-hover --symbol add hover.json
  toolwire normalize pytest -f text unit.txt integration.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().String("separator", "", "git log field separator (default from config, else \"|\")")
	normalizeCmd.Flags().String("symbol", "", "symbol name reported in lsp-hover results")
	normalizeCmd.Flags().Int("jobs", 0, "files normalized concurrently (default from config)")
	normalizeCmd.Flags().Bool("fail", false, "exit non-zero when any result reports success=false")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) (err error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer func() { err = cc.Finish(err) }()

	separator, _ := cmd.Flags().GetString("separator")
	symbol, _ := cmd.Flags().GetString("symbol")
	jobs, _ := cmd.Flags().GetInt("jobs")
	failOnError, _ := cmd.Flags().GetBool("fail")

	if separator == "" {
		separator = cc.Config.Normalize.LogSeparator
	}
	if jobs <= 0 {
		jobs = cc.Config.Normalize.Jobs
	}

	catalog, err := loadCatalog("", cc.Config.ToolCall.Catalog)
	if err != nil {
		return err
	}
	registry := normalize.New(
		normalize.WithLogger(cc.Logger),
		normalize.WithCatalog(catalog),
		normalize.WithMetrics(cc.Metrics),
	)
	kind, err := registry.Resolve(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("symbol") && kind != normalize.KindLSPHover {
		return errors.NewInapplicableOptionError("--symbol", kind, normalize.KindLSPHover)
	}
	if cmd.Flags().Changed("separator") && kind != normalize.KindGitLog {
		return errors.NewInapplicableOptionError("--separator", kind, normalize.KindGitLog)
	}

	files := args[1:]
	if len(files) == 0 {
		files = []string{stdinName}
	}
	if countStdin(files) > 1 {
		return errors.New(errors.ErrCodeStdinRead, "standard input can be named only once").
			WithSuggestion("Pass files by name when normalizing more than one input")
	}

	opts := normalize.Options{LogSeparator: separator, Symbol: symbol}
	docs, err := normalizeFiles(cmd, registry, kind, files, opts, jobs)
	if err != nil {
		return err
	}

	if err := render(cmd.OutOrStdout(), cc.Format, cc.NoColor, docs); err != nil {
		return err
	}

	if failOnError {
		for _, d := range docs {
			if r := d.Value.(envelope.Result); !r.Header().Success {
				return errors.NewCheckFailedError(errors.ErrCodeResultFailed, fmt.Sprintf("%s: %s", d.Label, r.Summary()))
			}
		}
	}
	return nil
}

// normalizeFiles reads and normalizes files with at most jobs in flight.
// Documents keep argument order.
func normalizeFiles(cmd *cobra.Command, registry *normalize.Registry, kind string, files []string, opts normalize.Options, jobs int) ([]document, error) {
	docs := make([]document, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := readInput(name, cmd.InOrStdin())
			if err != nil {
				return err
			}
			result, err := registry.Normalize(ctx, kind, raw, opts)
			if err != nil {
				return err
			}
			docs[i] = document{
				Label:  fmt.Sprintf("%s %s", kind, inputLabel(name)),
				Digest: envelope.ShortDigest(raw),
				Value:  result,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func countStdin(files []string) int {
	n := 0
	for _, f := range files {
		if strings.TrimSpace(f) == stdinName {
			n++
		}
	}
	return n
}
