package logging

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Badger adapts a zerolog logger to badger's logger interface. Badger is
// chatty at info level, so its info messages are logged at debug.
type Badger struct {
	L zerolog.Logger
}

func (l *Badger) Errorf(f string, v ...interface{}) {
	l.L.Error().Msg(format(f, v...))
}

func (l *Badger) Warningf(f string, v ...interface{}) {
	l.L.Warn().Msg(format(f, v...))
}

func (l *Badger) Infof(f string, v ...interface{}) {
	l.L.Debug().Msg(format(f, v...))
}

func (l *Badger) Debugf(f string, v ...interface{}) {
	l.L.Trace().Msg(format(f, v...))
}

func format(f string, v ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(f, v...))
}
