package toolschema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.Equal(t, 11, c.Len())

	tool, ok := c.Lookup("lsp_definition")
	require.True(t, ok)
	assert.Equal(t, "lsp-definition", tool.Normalizer)
	require.Len(t, tool.Params, 3)
	assert.Equal(t, Param{Name: "column", Type: "integer", Description: "1-based column.", Required: true}, tool.Params[0])

	_, ok = c.Lookup("rm_rf")
	assert.False(t, ok)
}

func TestToolsSorted(t *testing.T) {
	tools := Default().Tools()
	for i := 1; i < len(tools); i++ {
		assert.Less(t, tools[i-1].Name, tools[i].Name)
	}
}

func TestCoerce(t *testing.T) {
	tool, ok := Default().Lookup("lsp_references")
	require.True(t, ok)

	got := tool.Coerce(map[string]any{
		"file":                "src/app.py",
		"line":                "12",
		"column":              " 4 ",
		"include_declaration": "true",
		"unknown":             "x",
	})

	assert.Equal(t, "src/app.py", got["file"])
	assert.Equal(t, float64(12), got["line"])
	assert.Equal(t, float64(4), got["column"])
	assert.Equal(t, true, got["include_declaration"])
	assert.Equal(t, "x", got["unknown"])
}

func TestCoerceLeavesBadValues(t *testing.T) {
	tool, ok := Default().Lookup("git_log")
	require.True(t, ok)

	got := tool.Coerce(map[string]any{"limit": "ten"})
	assert.Equal(t, "ten", got["limit"])
	assert.Error(t, tool.Validate(got))
}

func TestValidate(t *testing.T) {
	tool, ok := Default().Lookup("lsp_hover")
	require.True(t, ok)

	assert.NoError(t, tool.Validate(map[string]any{"file": "a.py", "line": float64(1), "column": float64(1)}))
	assert.Error(t, tool.Validate(map[string]any{"file": "a.py"}))
	assert.Error(t, tool.Validate(nil))

	status, ok := Default().Lookup("git_status")
	require.True(t, ok)
	assert.NoError(t, status.Validate(nil))
}

func TestLoad(t *testing.T) {
	doc := `openapi: 3.0.3
info:
  title: custom
  version: "1"
paths: {}
components:
  schemas:
    run_build:
      type: object
      x-normalizer: typecheck
      required: [target]
      properties:
        target:
          type: string
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	tool, ok := c.Lookup("run_build")
	require.True(t, ok)
	assert.Equal(t, "typecheck", tool.Normalizer)
	assert.True(t, tool.Params[0].Required)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("not: [valid"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("openapi: 3.0.3\ninfo:\n  title: x\n  version: \"1\"\npaths: {}\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
