package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// spinnerInterval is the frame advance rate.
const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a braille spinner next to a message while a long
// operation runs. Without a TTY it degrades to a single static line.
type Spinner struct {
	message string
	tty     bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner returns a spinner ready to Start.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		tty:     isatty.IsTerminal(os.Stdout.Fd()),
		done:    make(chan struct{}),
	}
}

// Start begins animating. On non-TTY output it prints the message once
// and returns.
func (s *Spinner) Start() {
	if !s.tty {
		fmt.Printf("%s...\n", s.message)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.done:
				fmt.Print("\r\033[K")
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", Bold.Render(spinnerFrames[frame%len(spinnerFrames)]), s.message)
				frame++
			}
		}
	}()
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	if !s.tty {
		return
	}
	close(s.done)
	s.wg.Wait()
}
