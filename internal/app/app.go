package app

import (
	"fmt"
	"os"
	"time"

	"daybook/internal/config"
	"daybook/internal/database"
	"daybook/internal/drawing"
	"daybook/internal/encryption"
	"daybook/internal/journal"
)

// App is the application layer between the CLI and the journal core.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string arguments, and manages the store lifecycle on Close.
type App struct {
	cfg       *config.Config
	store     journal.Store
	service   *journal.Service
	pipeline  *journal.Pipeline
	encryptor encryption.Encryptor
	logger    journal.Logger
	clock     journal.Clock
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Write", "Repair").
// The caller must call Close when done.
//
// When repair_on_startup is set, the repair pipeline runs here, before the
// command body: every invocation counts as an application startup, and the
// duplicate pass in particular must not be gated on anything.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	store, err := database.NewStoreFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	encryptor, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger.With("op", operation)}

	thumbs := drawing.NewRenderer()
	a := &App{
		cfg:       cfg,
		store:     store,
		service:   journal.NewService(store, thumbs, logger, journal.UUIDGenerator{}),
		pipeline:  journal.NewPipeline(store, thumbs, logger),
		encryptor: encryptor,
		logger:    logger,
		clock:     journal.RealClock{},
		logFile:   logFile,
	}

	if cfg.Journal.RepairOnStartup {
		a.Repair()
	}

	return a, nil
}

// Repair runs the full repair pipeline and returns the per-pass reports.
// Pass failures are already logged by the pipeline; none of them abort
// application use.
func (a *App) Repair() []journal.PassReport {
	return a.pipeline.Run()
}

// Write stores text for the given day ("today" or yyyy-MM-dd).
func (a *App) Write(dateArg, text string) (*journal.Entry, error) {
	day, err := parseDay(dateArg)
	if err != nil {
		return nil, err
	}
	return a.service.SetText(day, text)
}

// Draw stores drawing bytes for the given day and regenerates thumbnails.
func (a *App) Draw(dateArg string, data []byte) (*journal.Entry, error) {
	day, err := parseDay(dateArg)
	if err != nil {
		return nil, err
	}
	return a.service.SetDrawing(day, data)
}

// Show returns the entry for the given day, creating an empty one if the
// day has never been written.
func (a *App) Show(dateArg string) (*journal.Entry, error) {
	day, err := parseDay(dateArg)
	if err != nil {
		return nil, err
	}
	return a.service.FindOrCreate(day)
}

// List returns every stored entry.
func (a *App) List() ([]*journal.Entry, error) {
	return a.service.FetchAll()
}

// Delete removes every record for the given day.
func (a *App) Delete(dateArg string) error {
	day, err := parseDay(dateArg)
	if err != nil {
		return err
	}
	return a.service.DeleteAllForDay(day)
}

// SetupEncryption generates the age key pair for snapshot encryption.
func (a *App) SetupEncryption(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// Close closes the store and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// parseDay interprets a CLI date argument. An empty argument or "today"
// means the current local calendar day.
func parseDay(arg string) (journal.CalendarDate, error) {
	if arg == "" || arg == "today" {
		return journal.CalendarDateOf(time.Now()), nil
	}
	return journal.ParseCalendarDate(arg)
}
