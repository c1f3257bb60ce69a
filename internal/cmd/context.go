package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/toolwire/internal/config"
	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/errors"
	"github.com/felixgeelhaar/toolwire/internal/log"
	"github.com/felixgeelhaar/toolwire/internal/metrics"
)

const defaultConfigName = config.DefaultPath

// CommandContext holds the resolved flags and configuration of one command
// run. Flags override the config file.
type CommandContext struct {
	Format  string
	NoColor bool

	Config  *config.Config
	Logger  *log.Logger
	Metrics *metrics.Metrics

	command     string
	registry    *prometheus.Registry
	metricsFile string
}

// NewCommandContext loads the configuration, applies the persistent flags
// and installs the process logger. Commands call it first in RunE.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}
	metricsFile, err := cmd.Flags().GetString("metrics-file")
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if metricsFile != "" {
		cfg.Metrics.File = metricsFile
	}
	if err := validateFormat(cfg.Output.Format); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logConfig := log.ConfigFrom(cfg.Log.Level, cfg.Log.Format)
	logConfig.Output = log.NewOutput(cmd.ErrOrStderr())
	logger := log.New(logConfig).With("command", cmd.Name())
	log.SetDefaultLogger(logger)

	registry, m := metrics.NewRegistry()

	return &CommandContext{
		Format:      cfg.Output.Format,
		NoColor:     noColor,
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		command:     cmd.Name(),
		registry:    registry,
		metricsFile: cfg.Metrics.File,
	}, nil
}

// Finish records a coded error and writes the metrics textfile when one is
// configured. It returns err, or the write failure when err is nil.
func (cc *CommandContext) Finish(err error) error {
	if te, ok := errors.As(err); ok {
		cc.Metrics.Errors.WithLabelValues(string(te.Code), cc.command).Inc()
	}
	if cc.metricsFile == "" {
		return err
	}
	if werr := metrics.WriteTextfile(cc.metricsFile, cc.registry); werr != nil {
		cc.Logger.WithError(werr).Warn("metrics export failed", "path", cc.metricsFile)
		if err == nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write metrics to %s", cc.metricsFile), werr)
		}
	}
	return err
}

func validateFormat(format string) error {
	if format == config.TextFormat {
		return nil
	}
	if _, err := envelope.ParseFormat(format); err != nil {
		return errors.NewUnknownFormatError(format, outputFormats())
	}
	return nil
}

func outputFormats() []string {
	names := []string{config.TextFormat}
	for _, f := range envelope.Formats() {
		names = append(names, string(f))
	}
	return names
}
