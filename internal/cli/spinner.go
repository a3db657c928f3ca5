package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line on a terminal while mazes are solved.
// Off a terminal it writes nothing.
type Spinner struct {
	w       io.Writer
	animate bool
	ctx     context.Context

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing

	stop    context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

// newSpinner draws on stderr until ctx ends or Stop is called.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, isTerminal(os.Stderr), message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, animate bool, message string) *Spinner {
	return &Spinner{w: w, animate: animate, ctx: ctx, message: message, stopped: make(chan struct{})}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start runs the animation in the background.
func (s *Spinner) Start() {
	runCtx, stop := context.WithCancel(s.ctx)
	s.stop = stop
	go func() {
		defer close(s.stopped)
		if !s.animate {
			<-runCtx.Done()
			return
		}
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[frame%len(spinnerFrames)])
			}
		}
	}()
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	s.width = max(s.width, len(s.message)+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

// Stop ends the animation and erases the line. Later calls do nothing.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.stop == nil {
			return
		}
		s.stop()
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.animate && s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

// StopWithSuccess stops and prints message as a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops and prints message as an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended.
func (s *Spinner) Cancelled() bool { return s.ctx.Err() != nil }
