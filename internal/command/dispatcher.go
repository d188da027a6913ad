package command

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownCommand = errors.New("command: unknown command")
	ErrMissingArgs    = errors.New("command: missing arguments")
	ErrEmpty          = errors.New("command: empty command line")
)

// Event is one parsed command line.
type Event struct {
	Command string
	Args    []string
}

// Parse splits a command line on whitespace. The command name is lowercased;
// arguments keep their case.
func Parse(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Event{}, ErrEmpty
	}
	return Event{Command: strings.ToLower(fields[0]), Args: fields[1:]}, nil
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*options)

type options struct {
	logged  bool
	minArgs int
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(o *options) {
		o.logged = true
	}
}

// MinArgs rejects events with fewer than n arguments before the handler runs.
func MinArgs(n int) Option {
	return func(o *options) {
		o.minArgs = n
	}
}

// Dispatcher routes events to registered handlers by case-insensitive name.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger
}

// New creates a Dispatcher. A nil logger disables the Logged option.
func New(logger Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Register adds a handler for the given command with optional configuration.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	name := strings.ToLower(command)
	handler := h

	if cfg.minArgs > 0 {
		handler = withMinArgs(name, cfg.minArgs, handler)
	}
	if cfg.logged && d.logger != nil {
		handler = d.withLogging(name, handler)
	}

	d.handlers[name] = handler
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[strings.ToLower(e.Command)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}
	return h(e)
}

// Exec parses line and dispatches it.
func (d *Dispatcher) Exec(line string) (any, error) {
	e, err := Parse(line)
	if err != nil {
		return nil, err
	}
	return d.Dispatch(e)
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[strings.ToLower(command)]
	return ok
}

func withMinArgs(command string, n int, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		if len(e.Args) < n {
			return nil, fmt.Errorf("%w: %s needs %d, got %d", ErrMissingArgs, command, n, len(e.Args))
		}
		return h(e)
	}
}

func (d *Dispatcher) withLogging(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("handling command", "command", command, "args", len(e.Args))

		result, err := h(e)

		if err != nil {
			d.logger.Error("command failed", "command", command, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", command, "duration", time.Since(start))
		}

		return result, err
	}
}
