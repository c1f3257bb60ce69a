package cmd

import (
	"io"
	"os"

	"github.com/felixgeelhaar/toolwire/internal/errors"
)

const stdinName = "-"

// readInput reads a named file, or stdin for "" and "-".
func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStdinRead, "failed to read standard input", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(name)
		}
		return nil, errors.NewFileReadError(name, err)
	}
	return data, nil
}

func inputLabel(name string) string {
	if name == "" || name == stdinName {
		return "<stdin>"
	}
	return name
}
