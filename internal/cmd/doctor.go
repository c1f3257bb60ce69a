package cmd

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/toolwire/internal/config"
	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/normalize"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration, tool catalog and tool binaries",
	Long: `Run diagnostics to check that toolwire is properly configured.

Checks include:
  • Configuration file is readable and valid
  • Tool catalog loads and every tool names a known normalizer
  • The developer tools whose output is normalized are on PATH

Missing binaries are warnings; configuration and catalog problems are
issues and make the command exit non-zero.`,
	Example: `  toolwire doctor -f text
  toolwire doctor --format json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// Check statuses.
const (
	checkOK      = "ok"
	checkWarning = "warning"
	checkError   = "error"
	checkMissing = "missing"
)

// doctorBinaries are looked up on PATH, keyed by the normalizer kind they feed.
var doctorBinaries = []struct {
	kind   string
	binary string
}{
	{normalize.KindGitStatus, "git"},
	{normalize.KindTypeCheck, "mypy"},
	{normalize.KindLint, "ruff"},
	{normalize.KindTest, "pytest"},
}

// DoctorReport represents the complete health check report
type DoctorReport struct {
	Config   *DoctorCheck   `json:"config" yaml:"config"`
	Catalog  *DoctorCheck   `json:"catalog" yaml:"catalog"`
	Binaries []*DoctorCheck `json:"binaries" yaml:"binaries"`
	Issues   []string       `json:"issues" yaml:"issues"`
	Warnings []string       `json:"warnings" yaml:"warnings"`
	Healthy  bool           `json:"healthy" yaml:"healthy"`
}

// DoctorCheck represents a single health check result
type DoctorCheck struct {
	Name    string         `json:"name" yaml:"name"`
	Status  string         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	format, _ := cmd.Flags().GetString("format")
	noColor, _ := cmd.Flags().GetBool("no-color")

	report := &DoctorReport{Issues: []string{}, Warnings: []string{}}

	cfg := checkConfig(configPath, report)
	checkCatalog(cfg, report)
	checkBinaries(exec.LookPath, report)
	report.Healthy = len(report.Issues) == 0

	// NewCommandContext fails on a broken config, so flags are read here.
	if format == "" {
		format = cfg.Output.Format
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == config.TextFormat {
		writeDoctorText(out, newStyles(out, noColor), report)
	} else if err := render(out, format, noColor, []document{{Value: report}}); err != nil {
		return err
	}

	if !report.Healthy {
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("doctor found %d issue(s)", len(report.Issues)))
	}
	return nil
}

// checkConfig records the configuration check and returns the configuration
// to continue with, the defaults when the file is broken.
func checkConfig(path string, report *DoctorReport) *config.Config {
	source := config.ResolvePath(path)
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		report.Config = &DoctorCheck{Name: "Configuration", Status: checkError, Message: err.Error()}
		report.Issues = append(report.Issues, fmt.Sprintf("configuration %s is invalid", source))
		return config.Default()
	}

	if source == "" {
		report.Config = &DoctorCheck{Name: "Configuration", Status: checkOK, Message: "using built-in defaults"}
		return cfg
	}
	report.Config = &DoctorCheck{
		Name:    "Configuration",
		Status:  checkOK,
		Message: fmt.Sprintf("%s is valid", source),
		Details: map[string]any{"path": source},
	}
	return cfg
}

func checkCatalog(cfg *config.Config, report *DoctorReport) {
	catalog, err := loadCatalog("", cfg.ToolCall.Catalog)
	if err != nil {
		report.Catalog = &DoctorCheck{Name: "Tool catalog", Status: checkError, Message: err.Error()}
		report.Issues = append(report.Issues, "tool catalog could not be loaded")
		return
	}

	source := cfg.ToolCall.Catalog
	if source == "" {
		source = "built-in"
	}

	registry := normalize.New()
	status := checkOK
	var unbound []string
	for _, tool := range catalog.Tools() {
		if tool.Normalizer == "" {
			unbound = append(unbound, tool.Name)
			continue
		}
		if _, err := registry.Resolve(tool.Normalizer); err != nil {
			status = checkError
			report.Issues = append(report.Issues,
				fmt.Sprintf("tool %s names unknown normalizer %q", tool.Name, tool.Normalizer))
		}
	}
	for _, name := range unbound {
		if status == checkOK {
			status = checkWarning
		}
		report.Warnings = append(report.Warnings, fmt.Sprintf("tool %s has no x-normalizer", name))
	}

	report.Catalog = &DoctorCheck{
		Name:    "Tool catalog",
		Status:  status,
		Message: fmt.Sprintf("%s catalog with %d tool(s)", source, catalog.Len()),
		Details: map[string]any{"source": source, "tools": catalog.Len()},
	}
}

func checkBinaries(lookPath func(string) (string, error), report *DoctorReport) {
	for _, b := range doctorBinaries {
		path, err := lookPath(b.binary)
		if err != nil {
			report.Binaries = append(report.Binaries, &DoctorCheck{
				Name:    b.binary,
				Status:  checkMissing,
				Message: fmt.Sprintf("not found on PATH (feeds %s)", b.kind),
			})
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s is not installed", b.binary))
			continue
		}
		report.Binaries = append(report.Binaries, &DoctorCheck{
			Name:    b.binary,
			Status:  checkOK,
			Message: path,
			Details: map[string]any{"normalizer": b.kind},
		})
	}
}

func writeDoctorText(w io.Writer, st styles, report *DoctorReport) {
	fmt.Fprintln(w, st.title.Render("toolwire diagnostics"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.key.Render("Setup:"))
	writeCheck(w, st, report.Config)
	writeCheck(w, st, report.Catalog)
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.key.Render("Tools:"))
	for _, c := range report.Binaries {
		writeCheck(w, st, c)
	}
	fmt.Fprintln(w)

	if len(report.Issues) > 0 {
		fmt.Fprintln(w, st.fail.Render("Issues:"))
		for _, issue := range report.Issues {
			fmt.Fprintf(w, "   • %s\n", issue)
		}
		fmt.Fprintln(w)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintln(w, st.warn.Render("Warnings:"))
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "   • %s\n", warning)
		}
		fmt.Fprintln(w)
	}

	if report.Healthy {
		fmt.Fprintln(w, st.ok.Render("✓ toolwire is ready to use"))
	} else {
		fmt.Fprintln(w, st.fail.Render("✗ toolwire has issues that need attention"))
	}
}

func writeCheck(w io.Writer, st styles, check *DoctorCheck) {
	if check == nil {
		return
	}
	var icon string
	switch check.Status {
	case checkOK:
		icon = st.ok.Render("✓")
	case checkWarning:
		icon = st.warn.Render("⚠")
	case checkError:
		icon = st.fail.Render("✗")
	default:
		icon = st.dim.Render("○")
	}
	fmt.Fprintf(w, "  %s %s: %s\n", icon, check.Name, check.Message)
}
