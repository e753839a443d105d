package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogdb/internal/catalog"
	"github.com/desertthunder/catalogdb/internal/formatter"
	"github.com/desertthunder/catalogdb/internal/shared"
	"github.com/desertthunder/catalogdb/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	palette *ui.Palette
	catalog *catalog.Catalog
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Config is used when the --config file does not exist. Catalog, when set,
// is used by every command instead of opening the configured database.
type RunnerOpts struct {
	Config  *shared.Config
	Logger  *log.Logger
	Output  io.Writer
	Catalog *catalog.Catalog
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		palette: ui.Default(),
		catalog: opts.Catalog,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, resetCommand, loadCommand, queryCommand, exportCommand, statsCommand, demoCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the config file at path. A missing file falls back to the
// runner's config with environment overrides applied.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return shared.LoadConfig(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	config := *r.config
	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// open returns the catalog for a command along with a function that releases it.
func (r *Runner) open(_ context.Context, cmd *cli.Command) (*catalog.Catalog, func(), error) {
	if r.catalog != nil {
		return r.catalog, func() {}, nil
	}

	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if err := shared.ApplyLogLevel(r.logger, config.Log.Level); err != nil {
		return nil, nil, err
	}

	r.logger.Debug("opening catalog", "driver", config.Database.Driver, "dsn", config.Database.DSN)
	c, err := catalog.Open(config, r.logger)
	if err != nil {
		return nil, nil, err
	}

	return c, func() {
		if err := c.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
	}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeTable(t *formatter.Table, f formatter.Format) error {
	return formatter.Write(r.output, t, f)
}
