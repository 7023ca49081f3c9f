package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/doumiao/listsync/internal/backends"
	"github.com/doumiao/listsync/internal/repositories"
	"github.com/doumiao/listsync/internal/shared"
	"github.com/doumiao/listsync/internal/sources"
	"github.com/doumiao/listsync/internal/sync"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	adapters   []sources.Adapter
	backends   []backends.Backend
	retry      sources.RetryPolicy
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Adapters   []sources.Adapter
	Backends   []backends.Backend
	Retry      sources.RetryPolicy
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = sources.DefaultRetryPolicy()
	}

	return &Runner{
		config:     opts.Config,
		adapters:   opts.Adapters,
		backends:   opts.Backends,
		retry:      opts.Retry,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, syncCommand, chartsCommand, historyCommand, sourceCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase opens the configured database and runs pending migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// newEngine builds a sync engine from the runner's dependencies. history may
// be nil for preview runs.
func (r *Runner) newEngine(history sync.HistoryWriter) *sync.Engine {
	return sync.NewEngine(sync.EngineOpts{
		Adapters:   r.adapters,
		Backends:   r.backends,
		Retry:      r.retry,
		History:    history,
		Logger:     r.logger,
		ExactMatch: r.config.Sync.ExactMatch,
		SearchRate: r.config.Sync.SearchRate,
	})
}

// adapter resolves a source adapter by name.
func (r *Runner) adapter(name string) (sources.Adapter, error) {
	for _, a := range r.adapters {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown source %q", shared.ErrInvalidFlag, name)
}

// historyRepo opens the database and returns a history repository plus a
// cleanup func.
func (r *Runner) historyRepo() (*repositories.SyncRunRepository, func(), error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewSyncRunRepository(db), func() { db.Close() }, nil
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
