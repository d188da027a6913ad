package logging

import "github.com/rs/zerolog"

// CommandComponent is the component field attached to command log entries.
const CommandComponent = "command"

// CommandLogger satisfies command.Logger on top of zerolog. Entries carry
// component=command so runtime commands can be filtered out of a run log.
type CommandLogger struct {
	logger zerolog.Logger
}

func NewCommandLogger(logger zerolog.Logger) *CommandLogger {
	return &CommandLogger{logger: logger.With().Str("component", CommandComponent).Logger()}
}

func (l *CommandLogger) Debug(msg string, keysAndValues ...any) {
	withPairs(l.logger.Debug(), keysAndValues).Msg(msg)
}

func (l *CommandLogger) Info(msg string, keysAndValues ...any) {
	withPairs(l.logger.Info(), keysAndValues).Msg(msg)
}

func (l *CommandLogger) Error(msg string, keysAndValues ...any) {
	withPairs(l.logger.Error(), keysAndValues).Msg(msg)
}

// withPairs appends alternating key/value pairs to e. Errors keep their
// message; non-string keys and a trailing odd value are dropped.
func withPairs(e *zerolog.Event, keysAndValues []any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case string:
			e = e.Str(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
