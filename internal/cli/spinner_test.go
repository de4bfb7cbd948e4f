package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStageSpinnerDrawsStage(t *testing.T) {
	var out syncBuffer
	s := newStageSpinnerTo(context.Background(), &out, "Solving grid:3x3")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Solving grid:3x3") {
		t.Errorf("output %q does not name the stage", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q does not end with a cleared line", got)
	}
	if s.Interrupted() {
		t.Error("explicit Stop reported as interrupted")
	}
}

func TestStageSpinnerInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newStageSpinnerTo(ctx, &syncBuffer{}, "Reading roads:city.osm")
	s.Start()
	cancel()
	s.Stop()

	if !s.Interrupted() {
		t.Error("cancelled context not reported as interrupted")
	}
}

func TestStageSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newStageSpinnerTo(ctx, &syncBuffer{}, "Solving grid:100x100")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !s.Interrupted() {
		t.Error("expired deadline not reported as interrupted")
	}
}

func TestStageSpinnerStopIsIdempotent(t *testing.T) {
	s := newStageSpinnerTo(context.Background(), &syncBuffer{}, "Solving graph:g.json")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestStageSpinnerStopWithoutStart(t *testing.T) {
	var out syncBuffer
	s := newStageSpinnerTo(context.Background(), &out, "Solving grid:2x2")
	s.Stop()
	if out.String() != "" {
		t.Errorf("unstarted spinner wrote %q", out.String())
	}
}
