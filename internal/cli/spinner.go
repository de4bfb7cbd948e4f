package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stageSpinner animates a one-line status for a pipeline stage, such as
// "Solving grid:40x40 (3s)". It stops on Stop or when its context ends.
type stageSpinner struct {
	w       io.Writer
	stage   string
	start   time.Time
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	width   int // widest line drawn
}

// newStageSpinner returns a spinner on stderr for the named stage.
func newStageSpinner(ctx context.Context, stage string) *stageSpinner {
	return newStageSpinnerTo(ctx, os.Stderr, stage)
}

func newStageSpinnerTo(ctx context.Context, w io.Writer, stage string) *stageSpinner {
	sctx, cancel := context.WithCancel(ctx)
	return &stageSpinner{
		w:       w,
		stage:   stage,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *stageSpinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *stageSpinner) draw(frame string) {
	line := s.stage
	if secs := int(time.Since(s.start).Seconds()); secs > 0 {
		line = fmt.Sprintf("%s (%ds)", s.stage, secs)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
}

// Stop ends the animation and clears the line. It may be called more than once.
func (s *stageSpinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if !s.start.IsZero() {
			<-s.stopped
		}
	})
}

func (s *stageSpinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
}

// Interrupted reports whether the caller's context ended, as opposed to an
// explicit Stop.
func (s *stageSpinner) Interrupted() bool {
	return s.parent.Err() != nil
}
