package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/eval"
	"github.com/felixgeelhaar/toolwire/internal/lsp"
	"github.com/felixgeelhaar/toolwire/internal/vcs"
)

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "out.txt", "hello")

	got, err := readInput(path, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	for _, name := range []string{"", "-"} {
		got, err := readInput(name, strings.NewReader("from stdin"))
		require.NoError(t, err)
		assert.Equal(t, "from stdin", string(got))
	}

	_, err = readInput(filepath.Join(dir, "missing.txt"), nil)
	te, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, te.Code)
}

func TestInputLabel(t *testing.T) {
	assert.Equal(t, "<stdin>", inputLabel(""))
	assert.Equal(t, "<stdin>", inputLabel("-"))
	assert.Equal(t, "a.txt", inputLabel("a.txt"))
}

func TestCountStdin(t *testing.T) {
	assert.Equal(t, 0, countStdin([]string{"a", "b"}))
	assert.Equal(t, 2, countStdin([]string{"-", "a", " - "}))
}

func TestLoadCatalog(t *testing.T) {
	c, err := loadCatalog("", "")
	require.NoError(t, err)
	_, ok := c.Lookup("git_log")
	assert.True(t, ok)

	_, err = loadCatalog(filepath.Join(t.TempDir(), "nope.yaml"), "")
	te, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCatalogLoad, te.Code)

	empty := writeFile(t, t.TempDir(), "empty.yaml", "openapi: 3.0.3\ninfo:\n  title: x\n  version: \"1\"\npaths: {}\n")
	_, err = loadCatalog(empty, "")
	te, ok = errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCatalogInvalid, te.Code)
}

func TestLoadCatalogFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tools.yaml", `openapi: 3.0.3
info:
  title: custom
  version: "1"
paths: {}
components:
  schemas:
    deploy:
      type: object
      x-normalizer: test
      properties:
        env:
          type: string
`)

	c, err := loadCatalog(path, filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	tool, ok := c.Lookup("deploy")
	require.True(t, ok)
	assert.Equal(t, "test", tool.Normalizer)
}

func TestOutputFormats(t *testing.T) {
	assert.Equal(t, []string{"text", "json", "yaml", "msgpack"}, outputFormats())
	assert.NoError(t, validateFormat("text"))
	assert.NoError(t, validateFormat("YAML"))

	te, ok := errors.As(validateFormat("xml"))
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnknownFormat, te.Code)
}

func TestRenderJSONStream(t *testing.T) {
	docs := []document{
		{Value: vcs.LogResult{Status: envelope.Clean()}},
		{Value: vcs.LogResult{Status: envelope.Succeeded(true), Commits: []vcs.Commit{{Hash: "abc"}}, CommitCount: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", true, docs))

	dec := json.NewDecoder(&buf)
	var got []map[string]any
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		got = append(got, m)
	}
	require.Len(t, got, 2)
	assert.Equal(t, true, got[0]["success"])
	assert.Equal(t, float64(1), got[1]["commit_count"])
}

func TestRenderYAMLDocuments(t *testing.T) {
	docs := []document{
		{Value: vcs.DiffResult{Status: envelope.Clean()}},
		{Value: vcs.DiffResult{Status: envelope.Drift(true, "no file headers")}},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "yaml", true, docs))

	dec := yaml.NewDecoder(&buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, true, first["success"])
	assert.NotContains(t, first, "diagnostic")
	assert.Equal(t, "no file headers", second["diagnostic"])
}

func TestRenderMsgpack(t *testing.T) {
	result := vcs.LogResult{Status: envelope.Succeeded(true), Commits: []vcs.Commit{{Hash: "abc", Message: "init"}}, CommitCount: 1}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "msgpack", true, []document{{Value: result}}))

	var got vcs.LogResult
	require.NoError(t, envelope.Unmarshal(envelope.FormatMsgpack, buf.Bytes(), &got))
	assert.Equal(t, 1, got.CommitCount)
	assert.Equal(t, "init", got.Commits[0].Message)
}

func TestRenderUnknownFormat(t *testing.T) {
	err := render(&bytes.Buffer{}, "toml", true, []document{{Value: 1}})
	te, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnknownFormat, te.Code)
}

func TestRenderTextResult(t *testing.T) {
	result := vcs.StatusResult{
		Status:         envelope.Succeeded(true),
		Files:          []vcs.StatusEntry{{File: "a.go", Status: vcs.StateModified}, {File: "b.go", Status: vcs.StateUntracked}},
		UnstagedCount:  1,
		UntrackedCount: 1,
		Total:          2,
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", true, []document{{Label: "git-status <stdin>", Digest: "0123456789ab", Value: result}}))

	out := buf.String()
	assert.Contains(t, out, "git-status <stdin> blake3:0123456789ab")
	assert.Contains(t, out, "✓ 0 staged, 1 unstaged, 1 untracked")
	assert.Contains(t, out, "unstaged  modified  a.go")
	assert.Contains(t, out, "untracked untracked b.go")
}

func TestRenderTextDiagnostic(t *testing.T) {
	result := lsp.DefinitionResult{Status: envelope.Unrecognized("unexpected string in definition response")}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", true, []document{{Value: result}}))
	assert.Contains(t, buf.String(), "✗ ")
	assert.Contains(t, buf.String(), "diagnostic: unexpected string in definition response")
}

func TestResultLines(t *testing.T) {
	tests := []struct {
		name   string
		result envelope.Result
		want   []string
	}{
		{
			name: "lint",
			result: eval.LintResult{Violations: []eval.LintFinding{
				{File: "a.py", Line: 1, Column: 2, Code: "F401", Message: "unused", Fixable: true},
			}},
			want: []string{"a.py:1:2: F401 unused (fixable)"},
		},
		{
			name:   "diff",
			result: vcs.DiffResult{Files: []vcs.FileDiff{{File: "app.py", Additions: 3, Deletions: 2, Hunks: 2}}},
			want:   []string{"app.py +3 -2 (2 hunk(s))"},
		},
		{
			name: "log",
			result: vcs.LogResult{Commits: []vcs.Commit{
				{Hash: "0123456789abcdef", Author: "Ada", Date: "2024-01-02", Message: "init"},
			}},
			want: []string{"01234567 2024-01-02 Ada: init"},
		},
		{
			name:   "references",
			result: lsp.ReferencesResult{References: []lsp.Location{{File: "a.py", Line: 3, Column: 7}}},
			want:   []string{"a.py:3:7"},
		},
		{
			name: "document symbols",
			result: lsp.DocumentSymbolsResult{Symbols: []lsp.DocumentSymbol{
				{Name: "Calc", Kind: "Class", Line: 1, Children: []lsp.DocumentSymbol{{Name: "add", Kind: "Method", Line: 2}}},
			}},
			want: []string{"Class Calc (line 1)", "  Method add (line 2)"},
		},
		{
			name:   "hover",
			result: lsp.HoverResult{Symbol: "add", Language: "python", Content: "def add()\n\nAdds."},
			want:   []string{"add (python)", "def add()", "", "Adds."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resultLines(tt.result))
		})
	}
}
