package server

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/eternalApril/keyfile/internal/resp"
	"github.com/eternalApril/keyfile/internal/storage"
	"go.uber.org/zap"
)

var errNoFile = errors.New("no settings file configured")

// Engine executes commands against one Store. The store itself does no
// locking, so every command runs under the engine mutex
type Engine struct {
	commands map[string]command // Registry of available commands (the key is the command name in uppercase)
	mu       sync.Mutex         // Guards store
	store    *storage.Store
	file     string      // Settings file used by SAVE, LOAD and Reload
	saved    os.FileInfo // File as left by the last save, nil before one
	logger   *zap.Logger
}

// NewEngine wraps store and registers the command set. file may be empty,
// in which case SAVE and LOAD fail
func NewEngine(store *storage.Store, file string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := &Engine{
		commands: make(map[string]command),
		store:    store,
		file:     file,
		logger:   logger,
	}
	engine.registerBasicCommand()

	return engine
}

// register adds a new command to the engine. The command name is uppercase
func (e *Engine) register(name string, cmd command) {
	e.commands[strings.ToUpper(name)] = cmd
}

// registerBasicCommand fills the registry with standard commands
func (e *Engine) registerBasicCommand() {
	e.register("PING", commandFunc(ping))
	e.register("GET", commandFunc(get))
	e.register("GETDEF", commandFunc(getDefault))
	e.register("SET", commandFunc(set))
	e.register("LEN", commandFunc(length))
	e.register("TYPE", commandFunc(kind))
	e.register("KEYS", commandFunc(keys))
	e.register("COMMAND", commandFunc(cmd))

	e.register("SAVE", commandFunc(func(req *request) resp.Value {
		if len(req.args) != 0 {
			return resp.MakeErrorWrongNumberOfArguments("save")
		}
		if err := e.saveLocked(); err != nil {
			return resp.MakeError("ERR " + err.Error())
		}
		return resp.MakeSimpleString("OK")
	}))

	e.register("LOAD", commandFunc(func(req *request) resp.Value {
		if len(req.args) != 0 {
			return resp.MakeErrorWrongNumberOfArguments("load")
		}
		if err := e.reloadLocked(); err != nil {
			return resp.MakeError("ERR " + err.Error())
		}
		return resp.MakeSimpleString("OK")
	}))
}

// Execute finds the command by name and executes it with the passed arguments.
// If the command is not found, returns an error in the RESP format
func (e *Engine) Execute(name string, args []resp.Value) resp.Value {
	name = strings.ToUpper(name)

	if e.logger.Core().Enabled(zap.DebugLevel) {
		e.logger.Debug("executing command",
			zap.String("cmd", name),
			zap.Int("args_count", len(args)),
		)
	}

	cmd, ok := e.commands[name]
	if !ok {
		return resp.MakeError(fmt.Sprintf("ERR unknown command '%s'", name))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return cmd.execute(&request{args: args, store: e.store})
}

// Save writes the store to the settings file
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked()
}

// Reload merges the settings file into the store
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reloadLocked()
}

// ReloadChanged is Reload unless the file is still the one the engine last
// saved. Reloading its own save would turn unset gap slots into numbers
func (e *Engine) ReloadChanged() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.saved != nil {
		fi, err := os.Stat(e.file)
		if err == nil && os.SameFile(fi, e.saved) && fi.ModTime().Equal(e.saved.ModTime()) && fi.Size() == e.saved.Size() {
			e.logger.Debug("settings file unchanged since save, skipping reload", zap.String("file", e.file))
			return nil
		}
	}
	return e.reloadLocked()
}

func (e *Engine) saveLocked() error {
	if e.file == "" {
		return errNoFile
	}
	if err := e.store.Save(e.file); err != nil {
		return err
	}
	e.saved, _ = os.Stat(e.file)
	e.logger.Info("settings saved", zap.String("file", e.file))
	return nil
}

func (e *Engine) reloadLocked() error {
	if e.file == "" {
		return errNoFile
	}
	if err := e.store.Parse(e.file); err != nil {
		return err
	}
	e.logger.Info("settings loaded", zap.String("file", e.file), zap.Int("settings", len(e.store.Names())))
	return nil
}
