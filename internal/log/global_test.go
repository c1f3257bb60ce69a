package log

import "testing"

func TestDefaultLogger(t *testing.T) {
	original := defaultLogger.Load()
	defer SetDefaultLogger(original)

	t.Run("returns the configured logger", func(t *testing.T) {
		custom := Discard()
		SetDefaultLogger(custom)
		if DefaultLogger() != custom {
			t.Error("DefaultLogger did not return the configured logger")
		}
	})

	t.Run("creates a logger when unset", func(t *testing.T) {
		SetDefaultLogger(nil)
		logger := DefaultLogger()
		if logger == nil {
			t.Fatal("DefaultLogger returned nil")
		}
		if DefaultLogger() != logger {
			t.Error("DefaultLogger should keep the lazily created logger")
		}
	})
}
