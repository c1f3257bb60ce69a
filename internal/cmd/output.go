package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/toolwire/internal/config"
	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/eval"
	"github.com/felixgeelhaar/toolwire/internal/lsp"
	"github.com/felixgeelhaar/toolwire/internal/toolcall"
	"github.com/felixgeelhaar/toolwire/internal/vcs"
)

// styles are the text-format styles. The zero value renders plain text.
type styles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	warn  lipgloss.Style
	key   lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(w io.Writer, noColor bool) styles {
	if noColor {
		return styles{}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		ok:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		fail:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("214")),
		key:   r.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		dim:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// document is one rendered output unit.
type document struct {
	Label  string
	Digest string
	Value  any
}

// render writes the documents in order. Structured formats emit one document
// per value: a JSON stream, YAML documents separated by "---", or
// concatenated msgpack values.
func render(w io.Writer, format string, noColor bool, docs []document) error {
	if format == config.TextFormat {
		st := newStyles(w, noColor)
		for i, d := range docs {
			if i > 0 {
				fmt.Fprintln(w)
			}
			renderText(w, st, d)
		}
		return nil
	}

	f, err := envelope.ParseFormat(format)
	if err != nil {
		return errors.NewUnknownFormatError(format, outputFormats())
	}
	for i, d := range docs {
		if f == envelope.FormatYAML && i > 0 {
			fmt.Fprintln(w, "---")
		}
		if err := envelope.Encode(w, f, d.Value); err != nil {
			return errors.Wrap(errors.ErrCodeEncodeFailed, fmt.Sprintf("failed to encode %s output", f), err)
		}
	}
	return nil
}

func renderText(w io.Writer, st styles, d document) {
	if d.Label != "" {
		header := st.title.Render(d.Label)
		if d.Digest != "" {
			header += " " + st.dim.Render("blake3:"+d.Digest)
		}
		fmt.Fprintln(w, header)
	}

	switch v := d.Value.(type) {
	case toolcall.Extraction:
		renderExtraction(w, st, v)
	case eval.GateReport:
		renderGate(w, st, v)
	case envelope.Result:
		renderResult(w, st, v)
	default:
		data, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(data))
	}
}

func renderResult(w io.Writer, st styles, r envelope.Result) {
	status := r.Header()
	mark := st.ok.Render("✓")
	if !status.Success {
		mark = st.fail.Render("✗")
	}
	fmt.Fprintf(w, "%s %s\n", mark, r.Summary())
	if status.HasDiagnostic() {
		fmt.Fprintf(w, "  %s %s\n", st.warn.Render("diagnostic:"), status.Diagnostic)
	}
	for _, line := range resultLines(r) {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// resultLines lists the entries of a result, one line each.
func resultLines(r envelope.Result) []string {
	var lines []string
	switch v := r.(type) {
	case eval.TypeCheckResult:
		for _, f := range v.Findings {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s [%s] %s", f.File, f.Line, f.Column, f.Severity, f.Code, f.Message))
		}
	case eval.LintResult:
		for _, f := range v.Violations {
			fix := ""
			if f.Fixable {
				fix = " (fixable)"
			}
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s %s%s", f.File, f.Line, f.Column, f.Code, f.Message, fix))
		}
	case eval.TestRunResult:
		for _, tc := range v.Tests {
			line := fmt.Sprintf("%-7s %s", strings.ToUpper(tc.Outcome), tc.Name)
			if tc.Message != "" {
				line += " - " + tc.Message
			}
			lines = append(lines, line)
		}
	case vcs.StatusResult:
		for _, f := range v.Files {
			where := "unstaged"
			if f.Staged {
				where = "staged"
			}
			if f.Status == vcs.StateUntracked {
				where = "untracked"
			}
			lines = append(lines, fmt.Sprintf("%-9s %-9s %s", where, f.Status, f.File))
		}
	case vcs.DiffResult:
		for _, f := range v.Files {
			lines = append(lines, fmt.Sprintf("%s +%d -%d (%d hunk(s))", f.File, f.Additions, f.Deletions, f.Hunks))
		}
	case vcs.LogResult:
		for _, c := range v.Commits {
			lines = append(lines, fmt.Sprintf("%s %s %s: %s", shortHash(c.Hash), c.Date, c.Author, c.Message))
		}
	case lsp.DefinitionResult:
		lines = locationLines(v.Locations)
	case lsp.ReferencesResult:
		lines = locationLines(v.References)
	case lsp.HoverResult:
		if v.Content != "" {
			lines = append(lines, fmt.Sprintf("%s (%s)", v.Symbol, v.Language))
			lines = append(lines, strings.Split(v.Content, "\n")...)
		}
	case lsp.DocumentSymbolsResult:
		symbolLines(v.Symbols, "", &lines)
	case lsp.WorkspaceSymbolsResult:
		for _, s := range v.Symbols {
			line := fmt.Sprintf("%s %s (%s:%d)", s.Kind, s.Name, s.File, s.Line)
			if s.ContainerName != "" {
				line += " [in " + s.ContainerName + "]"
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func locationLines(locs []lsp.Location) []string {
	lines := make([]string, 0, len(locs))
	for _, l := range locs {
		lines = append(lines, fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column))
	}
	return lines
}

func symbolLines(symbols []lsp.DocumentSymbol, indent string, lines *[]string) {
	for _, s := range symbols {
		*lines = append(*lines, fmt.Sprintf("%s%s %s (line %d)", indent, s.Kind, s.Name, s.Line))
		symbolLines(s.Children, indent+"  ", lines)
	}
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

func renderExtraction(w io.Writer, st styles, x toolcall.Extraction) {
	fmt.Fprintln(w, x.Summary())
	for _, c := range x.Calls {
		mark := st.ok.Render("✓")
		if c.Malformed {
			mark = st.fail.Render("✗")
		}
		fmt.Fprintf(w, "%s %s %s %s\n", mark, st.key.Render(c.Name), st.dim.Render(string(c.Encoding)), st.dim.Render(c.ID))
		keys := make([]string, 0, len(c.Arguments))
		for k := range c.Arguments {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			value, _ := json.Marshal(c.Arguments[k])
			fmt.Fprintf(w, "    %s = %s\n", k, value)
		}
		for _, warning := range c.Warnings {
			fmt.Fprintf(w, "    %s %s\n", st.warn.Render("warning:"), warning)
		}
	}
	if text := strings.TrimSpace(x.Text); text != "" {
		fmt.Fprintf(w, "%s\n%s\n", st.key.Render("text:"), text)
	}
}

func renderGate(w io.Writer, st styles, g eval.GateReport) {
	for _, c := range g.Checks {
		var mark string
		switch {
		case c.Skipped:
			mark = st.dim.Render("-")
		case c.Passed:
			mark = st.ok.Render("✓")
		default:
			mark = st.fail.Render("✗")
		}
		fmt.Fprintf(w, "%s %-9s %s\n", mark, c.Name, c.Message)
		if c.Diagnostic != "" {
			fmt.Fprintf(w, "  %s %s\n", st.warn.Render("diagnostic:"), c.Diagnostic)
		}
	}
	verdict := st.ok.Render("gate passed")
	if !g.AllPassed {
		verdict = st.fail.Render("gate failed")
	}
	fmt.Fprintf(w, "%s: %s\n", verdict, g.Summary())
}
