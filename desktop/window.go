package desktop

import (
	"errors"
	"sync"
)

var ErrNoWindow = errors.New("no window attached")

// Window is the little the privileged side needs from a toolkit window.
// fyne.Window satisfies it.
type Window interface {
	Title() string
}

// WindowState tracks the main window from ready to close. All access goes
// through its methods.
type WindowState struct {
	mu     sync.RWMutex
	window Window
}

// Attach records w as the main window once it is ready.
func (s *WindowState) Attach(w Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = w
}

// Detach forgets the window; call it when the window closes.
func (s *WindowState) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = nil
}

// Current returns the attached window, if any.
func (s *WindowState) Current() (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window, s.window != nil
}

// With calls fn with the attached window or returns ErrNoWindow.
func (s *WindowState) With(fn func(Window) error) error {
	w, ok := s.Current()
	if !ok {
		return ErrNoWindow
	}
	return fn(w)
}
