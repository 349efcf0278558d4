// Package app wires a math editing session together: configuration,
// logging, the model with its parser and command table, the event hub and
// undo history. A session is driven by a line-oriented script or by a Lua
// script.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/commands"
	"github.com/dshills/mathfield/internal/config"
	"github.com/dshills/mathfield/internal/editor"
	"github.com/dshills/mathfield/internal/event"
	"github.com/dshills/mathfield/internal/latex"
	"github.com/dshills/mathfield/internal/undo"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty means defaults.
	ConfigPath string

	// Watch reloads ConfigPath when it changes.
	Watch bool

	// Verbose forces debug logging regardless of the configured level.
	Verbose bool

	// LogOutput receives log output. Defaults to stderr.
	LogOutput io.Writer
}

// Application is one editing session.
type Application struct {
	mu sync.Mutex

	cfg      config.Config
	level    zap.AtomicLevel
	logger   *zap.Logger
	model    *editor.Model
	hub      *event.Hub
	recorder *undo.Recorder

	failures int
	opts     Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a session from the options.
func New(opts Options) (*Application, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, err
		}
	}

	a := &Application{cfg: cfg, opts: opts, level: zap.NewAtomicLevelAt(cfg.Level())}
	if opts.Verbose {
		a.level.SetLevel(zap.DebugLevel)
	}
	a.logger = newLogger(opts.LogOutput, a.level)

	a.hub = event.NewHub(event.WithLogger(a.logger))
	a.model = editor.New(
		editor.WithSettings(cfg.Settings()),
		editor.WithParser(latex.NewParser()),
		editor.WithSerializer(latex.NewSerializer()),
		editor.WithSuggestions(commands.Default()),
		editor.WithLogger(a.logger.Named("editor")),
	)
	a.hub.Attach(a.model)

	rec, err := undo.NewRecorder(a.model, a.hub, undo.NewManager(cfg.UndoOptions()...), a.logger)
	if err != nil {
		return nil, fmt.Errorf("undo recorder: %w", err)
	}
	a.recorder = rec

	if opts.Watch && opts.ConfigPath != "" {
		a.startWatch()
	}
	a.logger.Debug("session started",
		zap.String("config", opts.ConfigPath),
		zap.Bool("watch", opts.Watch))
	return a, nil
}

func (a *Application) startWatch() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := config.Watch(ctx, a.opts.ConfigPath, a.applyConfig, config.WithLogger(a.logger))
		if err != nil {
			a.logger.Warn("config watch stopped", zap.Error(err))
		}
	}()
}

// applyConfig installs a reloaded configuration. Undo limits only apply
// to new sessions.
func (a *Application) applyConfig(cfg config.Config, err error) {
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = cfg
	a.model.SetSettings(cfg.Settings())
	if !a.opts.Verbose {
		a.level.SetLevel(cfg.Level())
	}
}

// Model returns the session's model.
func (a *Application) Model() *editor.Model { return a.model }

// Hub returns the session's event hub.
func (a *Application) Hub() *event.Hub { return a.hub }

// Config returns the configuration in effect.
func (a *Application) Config() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Failures returns the number of script lines that failed.
func (a *Application) Failures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failures
}

// Shutdown stops the config watcher and flushes the logger.
func (a *Application) Shutdown() {
	if a.cancel != nil {
		a.cancel()
		a.wg.Wait()
		a.cancel = nil
	}
	_ = a.recorder.Close()
	st := a.hub.Stats()
	a.logger.Debug("session ended",
		zap.Uint64("events", st.Published),
		zap.Uint64("delivered", st.Delivered),
		zap.Uint64("failed", st.Failed),
		zap.Uint64("panicked", st.Panicked))
	_ = a.logger.Sync()
}

// Exec runs a single script line and returns the state line to print.
func (a *Application) Exec(lineNo int, line string) (string, error) {
	name, arg := splitLine(line)
	return a.exec(lineNo, name, arg)
}

func (a *Application) exec(lineNo int, name, arg string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	act, ok := lookup(name)
	if !ok {
		a.failures++
		return "", &ActionError{Line: lineNo, Action: name, Err: ErrUnknownAction}
	}
	a.logger.Debug("action", zap.Int("line", lineNo), zap.String("name", name), zap.String("arg", arg))
	if err := act.run(a, arg); err != nil {
		if errors.Is(err, ErrQuit) {
			return "", err
		}
		a.failures++
		return "", &ActionError{Line: lineNo, Action: name, Err: err}
	}
	return a.state()
}

func (a *Application) state() (string, error) {
	value, err := a.model.Value()
	if err != nil {
		return "", err
	}
	s := value + "\t" + a.model.SelectionString()
	if mode := a.model.Mode(); mode != a.cfg.Settings().DefaultMode {
		s += "\t[" + mode.String() + "]"
	}
	return s, nil
}
