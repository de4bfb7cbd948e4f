package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Info("loaded graph", "nodes", 9, "edges", 40)

	out := buf.String()
	for _, want := range []string{"loaded graph", "nodes=9", "edges=40"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"solver summary at info", log.InfoLevel, func(l *log.Logger) { l.Info("solved", "accepted", 9) }, true},
		{"seed count hidden at info", log.InfoLevel, func(l *log.Logger) { l.Debug("seeded", "seeds", 1) }, false},
		{"seed count at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("seeded", "seeds", 1) }, true},
		{"cache warning at warn", log.WarnLevel, func(l *log.Logger) { l.Warn("cache unavailable") }, true},
		{"solver summary hidden at warn", log.WarnLevel, func(l *log.Logger) { l.Info("solved") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))

	time.Sleep(10 * time.Millisecond)
	prog.done("Solved grid:3x3")

	out := buf.String()
	if !strings.Contains(out, "Solved grid:3x3 (") {
		t.Errorf("output %q missing stage and duration", out)
	}
	if !strings.Contains(out, "ms)") && !strings.Contains(out, "s)") {
		t.Errorf("output %q missing duration unit", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("solved", "variant", "constant")
	if !strings.Contains(buf.String(), "variant=constant") {
		t.Errorf("attached logger wrote %q", buf.String())
	}
}
