package log

import (
	"bytes"
	"os"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"console", FormatText},
		{"invalid", FormatJSON},
		{"", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != LevelWarn {
		t.Errorf("DefaultConfig.Level = %v, want %v", config.Level, LevelWarn)
	}
	if config.Format != FormatText {
		t.Errorf("DefaultConfig.Format = %v, want %v", config.Format, FormatText)
	}
	if config.Output.Writer() != os.Stderr {
		t.Error("DefaultConfig should write to stderr")
	}
	if config.ServiceName != "toolwire" {
		t.Errorf("DefaultConfig.ServiceName = %q, want %q", config.ServiceName, "toolwire")
	}
}

func TestConfigFrom(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		format     string
		wantLevel  Level
		wantFormat Format
		wantSource bool
	}{
		{"defaults", "", "", LevelWarn, FormatText, false},
		{"debug json", "debug", "json", LevelDebug, FormatJSON, true},
		{"error", "error", "", LevelError, FormatText, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := ConfigFrom(tt.level, tt.format)
			if config.Level != tt.wantLevel {
				t.Errorf("Level = %v, want %v", config.Level, tt.wantLevel)
			}
			if config.Format != tt.wantFormat {
				t.Errorf("Format = %v, want %v", config.Format, tt.wantFormat)
			}
			if config.AddSource != tt.wantSource {
				t.Errorf("AddSource = %v, want %v", config.AddSource, tt.wantSource)
			}
		})
	}
}

func TestOutputWriter(t *testing.T) {
	var buf bytes.Buffer
	if NewOutput(&buf).Writer() != &buf {
		t.Error("NewOutput should return the given writer")
	}
	if (Output{}).Writer() != os.Stderr {
		t.Error("zero Output should fall back to stderr")
	}
}
