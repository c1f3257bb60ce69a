// Package config loads the optional .toolwire.yaml file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/log"
	"github.com/felixgeelhaar/toolwire/internal/toolcall"
	"github.com/felixgeelhaar/toolwire/internal/vcs"
)

// DefaultPath is looked up in the working directory when --config is not set.
const DefaultPath = ".toolwire.yaml"

// TextFormat is the human-readable output format rendered by the CLI.
const TextFormat = "text"

// Config is the file layout of .toolwire.yaml.
type Config struct {
	Log       LogConfig       `json:"log" yaml:"log"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	ToolCall  ToolCallConfig  `json:"toolcall" yaml:"toolcall"`
	Normalize NormalizeConfig `json:"normalize" yaml:"normalize"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// OutputConfig selects the result encoding.
type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
}

// ToolCallConfig configures tool-call extraction.
type ToolCallConfig struct {
	OpenMarker  string `json:"open_marker" yaml:"open_marker"`
	CloseMarker string `json:"close_marker" yaml:"close_marker"`
	// Catalog is an OpenAPI document describing the tools. Empty means the
	// built-in catalog.
	Catalog string `json:"catalog" yaml:"catalog"`
	// Validate checks extracted arguments against the catalog.
	Validate bool `json:"validate" yaml:"validate"`
}

// NormalizeConfig configures the normalizers.
type NormalizeConfig struct {
	LogSeparator string `json:"log_separator" yaml:"log_separator"`
	Jobs         int    `json:"jobs" yaml:"jobs"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	// File receives the metrics of each run. Empty disables the export.
	File string `json:"file" yaml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	markers := toolcall.DefaultMarkers()
	return &Config{
		Log:    LogConfig{Level: "warn", Format: "text"},
		Output: OutputConfig{Format: string(envelope.FormatJSON)},
		ToolCall: ToolCallConfig{
			OpenMarker:  markers.Open,
			CloseMarker: markers.Close,
			Validate:    true,
		},
		Normalize: NormalizeConfig{
			LogSeparator: vcs.DefaultLogSeparator,
			Jobs:         4,
		},
	}
}

// Load reads a configuration file. Unset keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.NewFileReadError(path, err)
	}
	return Parse(path, data)
}

// LoadOrDefault loads path when set. With an empty path it reads
// DefaultPath if present and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	resolved := ResolvePath(path)
	if resolved == "" {
		return Default(), nil
	}
	return Load(resolved)
}

// ResolvePath returns the file LoadOrDefault would read, or "" when the
// defaults apply.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultPath); err != nil {
		return ""
	}
	return DefaultPath
}

// Parse decodes configuration bytes; name is used in error messages.
// Environment variables are expanded inside scalar values, so a value may
// hold any byte without breaking the document.
func Parse(name string, data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigUnmarshalError(name, err)
	}

	config := Default()
	if doc.Kind != 0 {
		expandEnv(&doc)
		expanded, err := yaml.Marshal(&doc)
		if err != nil {
			return nil, errors.NewConfigUnmarshalError(name, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(expanded))
		dec.KnownFields(true)
		if err := dec.Decode(config); err != nil && err != io.EOF {
			return nil, errors.NewConfigUnmarshalError(name, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// expandEnv substitutes environment variables in scalar values. A plain
// scalar that changed drops its tag so "${JOBS}" can decode as an int.
func expandEnv(node *yaml.Node) {
	if node.Kind == yaml.ScalarNode {
		expanded := os.ExpandEnv(node.Value)
		if expanded != node.Value {
			node.Value = expanded
			if node.Style == 0 {
				node.Tag = ""
			}
		}
		return
	}
	for i, child := range node.Content {
		if node.Kind == yaml.MappingNode && i%2 == 0 {
			continue
		}
		expandEnv(child)
	}
}

// Validate checks every field against the values the CLI accepts.
func (c *Config) Validate() error {
	if _, ok := log.LookupLevel(c.Log.Level); !ok {
		return errors.NewConfigInvalidError(fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return errors.NewConfigInvalidError(fmt.Sprintf("log.format %q must be json or text", c.Log.Format))
	}

	if c.Output.Format != TextFormat {
		if _, err := envelope.ParseFormat(c.Output.Format); err != nil {
			return errors.NewConfigInvalidError(fmt.Sprintf("output.format: %v", err))
		}
	}

	if (c.ToolCall.OpenMarker == "") != (c.ToolCall.CloseMarker == "") {
		return errors.NewConfigInvalidError("toolcall.open_marker and toolcall.close_marker must be set together")
	}
	if c.ToolCall.OpenMarker != "" && c.ToolCall.OpenMarker == c.ToolCall.CloseMarker {
		return errors.NewConfigInvalidError("toolcall.open_marker and toolcall.close_marker must differ")
	}

	if c.Normalize.LogSeparator == "" {
		return errors.NewConfigInvalidError("normalize.log_separator must not be empty")
	}
	if c.Normalize.Jobs < 0 {
		return errors.NewConfigInvalidError("normalize.jobs must be non-negative")
	}
	return nil
}

// Markers returns the configured tool-call markers.
func (c *Config) Markers() toolcall.Markers {
	if c.ToolCall.OpenMarker == "" {
		return toolcall.DefaultMarkers()
	}
	return toolcall.Markers{Open: c.ToolCall.OpenMarker, Close: c.ToolCall.CloseMarker}
}

// Save writes the configuration to path as YAML, replacing any existing file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "failed to marshal configuration", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// Lookup returns the value at a dotted key such as "normalize.jobs".
func (c *Config) Lookup(key string) (any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to marshal configuration", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to marshal configuration", err)
	}

	var node any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, unknownKey(key)
		}
		if node, ok = m[part]; !ok {
			return nil, unknownKey(key)
		}
	}
	return node, nil
}

func unknownKey(key string) error {
	return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("unknown configuration key: %s", key)).
		WithSuggestion("Run 'toolwire config view' to list the available keys")
}
