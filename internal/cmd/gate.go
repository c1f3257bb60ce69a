package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/eval"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Combine type-check, lint and test output into one verdict",
	Long: `Normalize the raw output of a type checker, a linter and a test runner and
report a single pass/fail verdict. Checks whose file is not given are skipped
and do not fail the gate. A check whose output drifted from the expected
format carries the diagnostic in the report.`,
	Example: `  toolwire gate --typecheck mypy.json --lint ruff.txt --tests pytest.txt
  toolwire gate --lint ruff.txt -f text`,
	Args: cobra.NoArgs,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().String("typecheck", "", "type checker JSON output file")
	gateCmd.Flags().String("lint", "", "linter output file")
	gateCmd.Flags().String("tests", "", "test runner output file")
	gateCmd.Flags().Bool("no-fail", false, "exit zero even when the gate fails")

	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) (err error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer func() { err = cc.Finish(err) }()

	typecheckFile, _ := cmd.Flags().GetString("typecheck")
	lintFile, _ := cmd.Flags().GetString("lint")
	testsFile, _ := cmd.Flags().GetString("tests")
	noFail, _ := cmd.Flags().GetBool("no-fail")

	var given []string
	for _, f := range []string{typecheckFile, lintFile, testsFile} {
		if f != "" {
			given = append(given, f)
		}
	}
	if countStdin(given) > 1 {
		return errors.New(errors.ErrCodeStdinRead, "standard input can be named only once").
			WithSuggestion("Pass at most one check output as -")
	}

	var in eval.GateInputs
	if typecheckFile != "" {
		raw, err := readInput(typecheckFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		r := eval.NormalizeTypeCheck(raw)
		in.TypeCheck = &r
	}
	if lintFile != "" {
		raw, err := readInput(lintFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		r := eval.NormalizeLint(raw)
		in.Lint = &r
	}
	if testsFile != "" {
		raw, err := readInput(testsFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		r := eval.NormalizeTestRun(raw)
		in.Tests = &r
	}

	report := eval.RunGate(in)
	cc.Metrics.ObserveGate(report)
	for _, c := range report.Checks {
		if c.Diagnostic != "" {
			cc.Logger.Warn("gate check diagnostic", "check", c.Name, "diagnostic", c.Diagnostic)
		}
	}

	if err := render(cmd.OutOrStdout(), cc.Format, cc.NoColor, []document{{Label: "gate", Value: report}}); err != nil {
		return err
	}

	if !report.AllPassed && !noFail {
		return errors.NewCheckFailedError(errors.ErrCodeGateFailed, report.Summary())
	}
	return nil
}

