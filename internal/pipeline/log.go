package pipeline

import "fmt"

// Level classifies a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// LogFunc receives progress messages from a run.
type LogFunc func(level Level, msg string)

func (p *Pipeline) logf(level Level, format string, args ...any) {
	if p.log == nil {
		return
	}
	p.log(level, fmt.Sprintf(format, args...))
}
