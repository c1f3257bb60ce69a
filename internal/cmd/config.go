package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/toolwire/internal/config"
	"github.com/felixgeelhaar/toolwire/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create the toolwire configuration",
	Long: `Inspect the effective configuration or write a starter file.

The configuration is read from --config, else from ./` + config.DefaultPath + `
when present. Unset keys keep their defaults and ${VAR} references are
expanded from the environment.`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

var configGetCmd = &cobra.Command{
	Use:     "get <key>",
	Short:   "Get a configuration value",
	Long:    `Retrieve one configuration value using dot notation (e.g., normalize.jobs).`,
	Example: `  toolwire config get toolcall.open_marker`,
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigGet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file in use",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cc.Format != config.TextFormat {
		return render(out, cc.Format, cc.NoColor, []document{{Value: cc.Config}})
	}

	st := newStyles(out, cc.NoColor)
	configPath, _ := cmd.Flags().GetString("config")
	source := config.ResolvePath(configPath)
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(out, "%s %s\n\n", st.key.Render("Configuration:"), source)

	data, err := yaml.Marshal(cc.Config)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailed, "failed to encode configuration", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	value, err := cc.Config.Lookup(args[0])
	if err != nil {
		return err
	}

	if _, nested := value.(map[string]any); nested {
		data, err := yaml.Marshal(value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeEncodeFailed, "failed to encode configuration", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	path := config.ResolvePath(configPath)
	if path == "" {
		path = config.DefaultPath + " (not present, using defaults)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath
	}
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("%s already exists", path)).
			WithSuggestion("Pass --force to overwrite it")
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
