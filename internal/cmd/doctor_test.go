package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/toolwire/internal/config"
	"github.com/felixgeelhaar/toolwire/internal/errors"
)

const badCatalog = `openapi: 3.0.3
info:
  title: custom
  version: "1"
paths: {}
components:
  schemas:
    deploy:
      type: object
      x-normalizer: kubectl
    notify:
      type: object
    run_lint:
      type: object
      x-normalizer: ruff
`

func TestCheckBinaries(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "git" {
			return "/usr/bin/git", nil
		}
		return "", fmt.Errorf("%s: not found", name)
	}

	report := &DoctorReport{}
	checkBinaries(lookPath, report)

	require.Len(t, report.Binaries, len(doctorBinaries))
	assert.Equal(t, checkOK, report.Binaries[0].Status)
	assert.Equal(t, "/usr/bin/git", report.Binaries[0].Message)
	assert.Equal(t, checkMissing, report.Binaries[1].Status)
	assert.Len(t, report.Warnings, len(doctorBinaries)-1)
	assert.Empty(t, report.Issues)
}

func TestCheckCatalog(t *testing.T) {
	report := &DoctorReport{}
	checkCatalog(config.Default(), report)
	assert.Equal(t, checkOK, report.Catalog.Status)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Warnings)

	path := writeFile(t, t.TempDir(), "tools.yaml", badCatalog)
	cfg := config.Default()
	cfg.ToolCall.Catalog = path

	report = &DoctorReport{}
	checkCatalog(cfg, report)
	assert.Equal(t, checkError, report.Catalog.Status)
	assert.Equal(t, []string{`tool deploy names unknown normalizer "kubectl"`}, report.Issues)
	assert.Equal(t, []string{"tool notify has no x-normalizer"}, report.Warnings)

	cfg.ToolCall.Catalog = filepath.Join(t.TempDir(), "missing.yaml")
	report = &DoctorReport{}
	checkCatalog(cfg, report)
	assert.Equal(t, checkError, report.Catalog.Status)
	assert.Len(t, report.Issues, 1)
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()

	report := &DoctorReport{}
	cfg := checkConfig(writeFile(t, dir, "good.yaml", "normalize:\n  jobs: 2\n"), report)
	assert.Equal(t, checkOK, report.Config.Status)
	assert.Equal(t, 2, cfg.Normalize.Jobs)

	report = &DoctorReport{}
	cfg = checkConfig(writeFile(t, dir, "bad.yaml", "log:\n  level: loud\n"), report)
	assert.Equal(t, checkError, report.Config.Status)
	assert.Equal(t, config.Default(), cfg)
	assert.Len(t, report.Issues, 1)
}

func TestDoctorCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "", "doctor", "-f", "json")
	require.NoError(t, err)

	var report DoctorReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.True(t, report.Healthy)
	assert.Equal(t, checkOK, report.Config.Status)
	assert.Len(t, report.Binaries, len(doctorBinaries))

	stdout, _, err = runCLI(t, "", "doctor", "-f", "text", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Tool catalog: built-in catalog")
	assert.Contains(t, stdout, "toolwire is ready to use")
}

func TestDoctorCommandBrokenConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "toolwire.yaml", "output:\n  format: toml\n")

	stdout, _, err := runCLI(t, "", "--config", path, "doctor", "-f", "text", "--no-color")
	requireCode(t, err, errors.ErrCodeConfigInvalid)
	assert.Contains(t, stdout, "✗ Configuration:")
	assert.Contains(t, stdout, "has issues that need attention")
}
