package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/toolcall"
	"github.com/felixgeelhaar/toolwire/internal/toolschema"
)

var extractCmd = &cobra.Command{
	Use:   "extract [FILE|-]",
	Short: "Extract tool calls from model output",
	Long: `Extract every tool call from a model response and print the calls together
with the residual text.

Calls wrapped in the tool-call markers may be JSON records or
<function=NAME><parameter=K>V</parameter></function> tags. Calls that lost
their opening marker are recovered from the function tags, and blocks that
fit neither grammar are kept as malformed calls so nothing is dropped.

With validation enabled, arguments are coerced to the types declared in the
tool catalog and checked against it; problems become per-call warnings.`,
	Example: `  toolwire extract response.txt
  llm-run | toolwire extract -f yaml
  toolwire extract --catalog tools.yaml --format text response.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("catalog", "", "OpenAPI tool catalog (default: built-in catalog)")
	extractCmd.Flags().Bool("no-validate", false, "skip argument coercion and catalog validation")
	extractCmd.Flags().String("open-marker", "", "opening tool-call marker (default <tool_call>)")
	extractCmd.Flags().String("close-marker", "", "closing tool-call marker (default </tool_call>)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) (err error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer func() { err = cc.Finish(err) }()

	catalogPath, _ := cmd.Flags().GetString("catalog")
	noValidate, _ := cmd.Flags().GetBool("no-validate")
	openMarker, _ := cmd.Flags().GetString("open-marker")
	closeMarker, _ := cmd.Flags().GetString("close-marker")

	markers := cc.Config.Markers()
	if openMarker != "" {
		markers.Open = openMarker
	}
	if closeMarker != "" {
		markers.Close = closeMarker
	}
	if markers.Open == markers.Close {
		return errors.New(errors.ErrCodeMarkersInvalid, "tool-call open and close markers must differ").
			WithSuggestion("Pass distinct --open-marker and --close-marker values")
	}

	opts := []toolcall.Option{toolcall.WithMarkers(markers)}
	if cc.Config.ToolCall.Validate && !noValidate {
		catalog, err := loadCatalog(catalogPath, cc.Config.ToolCall.Catalog)
		if err != nil {
			return err
		}
		opts = append(opts, toolcall.WithCatalog(catalog))
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	raw, err := readInput(name, cmd.InOrStdin())
	if err != nil {
		return err
	}

	extraction := toolcall.New(opts...).Extract(string(raw))
	cc.Metrics.ObserveExtraction(extraction)

	cc.Logger.Debug("extracted tool calls",
		"input", inputLabel(name),
		"digest", envelope.ShortDigest(raw),
		"calls", len(extraction.Calls),
	)
	for _, c := range extraction.Calls {
		if c.Malformed {
			cc.Logger.Warn("malformed tool call salvaged", "name", c.Name, "offset", c.Offset)
		}
		for _, w := range c.Warnings {
			cc.Logger.Warn("tool call failed catalog check", "name", c.Name, "warning", w)
		}
	}

	return render(cmd.OutOrStdout(), cc.Format, cc.NoColor, []document{{
		Label:  inputLabel(name),
		Digest: envelope.ShortDigest(raw),
		Value:  extraction,
	}})
}

// loadCatalog prefers the flag over the config file and falls back to the
// built-in catalog.
func loadCatalog(flagPath, configPath string) (*toolschema.Catalog, error) {
	path := flagPath
	if path == "" {
		path = configPath
	}
	if path == "" {
		return toolschema.Default(), nil
	}
	catalog, err := toolschema.Load(path)
	if stderrors.Is(err, toolschema.ErrInvalid) {
		return nil, errors.NewCatalogInvalidError(path, err)
	}
	if err != nil {
		return nil, errors.NewCatalogLoadError(path, err)
	}
	return catalog, nil
}
