package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/toolwire/internal/config"
	"github.com/felixgeelhaar/toolwire/internal/toolschema"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools in the catalog",
	Long: `List every tool in the catalog with the normalizer that handles its output
and its parameters. Required parameters are marked with "*".`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().String("catalog", "", "OpenAPI tool catalog (default: built-in catalog)")

	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	catalogPath, _ := cmd.Flags().GetString("catalog")
	catalog, err := loadCatalog(catalogPath, cc.Config.ToolCall.Catalog)
	if err != nil {
		return err
	}

	tools := catalog.Tools()
	if cc.Format == config.TextFormat {
		writeToolsText(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout(), cc.NoColor), tools)
		return nil
	}
	return render(cmd.OutOrStdout(), cc.Format, cc.NoColor, []document{{Value: tools}})
}

func writeToolsText(w io.Writer, st styles, tools []*toolschema.Tool) {
	for _, v := range tools {
		fmt.Fprintf(w, "%s %s\n", st.key.Render(v.Name), st.dim.Render("→ "+v.Normalizer))
		if v.Description != "" {
			fmt.Fprintf(w, "  %s\n", strings.TrimSpace(v.Description))
		}
		for _, p := range v.Params {
			req := " "
			if p.Required {
				req = "*"
			}
			fmt.Fprintf(w, "  %s %-12s %-8s %s\n", req, p.Name, p.Type, p.Description)
		}
	}
}
