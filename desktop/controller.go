package desktop

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/leeforge/genico/i18n"
	"github.com/leeforge/genico/media/processor"
)

var (
	ErrNoFileSelected = errors.New("no file selected")
	ErrBusy           = errors.New("a conversion is already running")
)

type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// View is the converter screen. Implementations must be safe to call from
// any goroutine.
type View interface {
	ShowSelected(name string)
	ShowStatus(kind StatusKind, message string)
	SetConverting(converting bool)
}

// Controller drives the converter screen: pick a file, convert it, ask
// where to save and write it.
type Controller struct {
	bridge  *Bridge
	view    View
	printer *i18n.Printer

	mu         sync.Mutex
	selected   string
	converting bool
}

func NewController(bridge *Bridge, view View, printer *i18n.Printer) *Controller {
	if printer == nil {
		printer = i18n.Default()
	}
	return &Controller{bridge: bridge, view: view, printer: printer}
}

// Listen routes file-selected events to the screen.
func (c *Controller) Listen() Subscription {
	return c.bridge.Events().Subscribe(EventFileSelected, func(_ context.Context, e Event) error {
		path, ok := e.Payload.(string)
		if !ok {
			return fmt.Errorf("file-selected payload has type %T", e.Payload)
		}
		c.HandleFileSelected(path)
		return nil
	})
}

// Selected returns the current file path, or "".
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *Controller) HandleFileSelected(path string) {
	c.mu.Lock()
	c.selected = path
	c.mu.Unlock()

	c.view.ShowSelected(filepath.Base(path))
	c.view.ShowStatus(StatusSuccess, c.printer.Sprintf(i18n.KeyFileSelected))
}

// SelectFile runs the picker and selects the result.
func (c *Controller) SelectFile(ctx context.Context) error {
	res, err := c.bridge.SelectFile(ctx)
	if err != nil {
		c.view.ShowStatus(StatusError, err.Error())
		return err
	}
	if path, ok := Path(res); ok {
		c.HandleFileSelected(path)
	}
	return nil
}

// Convert converts the selected file and saves it where the user says.
// The convert control is disabled for the whole run.
func (c *Controller) Convert(ctx context.Context) error {
	c.mu.Lock()
	path := c.selected
	if path == "" {
		c.mu.Unlock()
		c.view.ShowStatus(StatusError, c.printer.Sprintf(i18n.KeyNoFileSelected))
		return ErrNoFileSelected
	}
	if c.converting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.converting = true
	c.mu.Unlock()

	c.view.SetConverting(true)
	c.view.ShowStatus(StatusInfo, c.printer.Sprintf(i18n.KeyConverting))
	defer func() {
		c.mu.Lock()
		c.converting = false
		c.mu.Unlock()
		c.view.SetConverting(false)
	}()

	err := c.convert(ctx, path)
	if err != nil {
		c.view.ShowStatus(StatusError, c.message(err))
	}
	return err
}

// message renders err in the screen language when it is a rule violation.
func (c *Controller) message(err error) string {
	var ruleErr *processor.RuleError
	if errors.As(err, &ruleErr) {
		return c.printer.Sprintf(i18n.KeyConversionFailed, ruleErr.Warning.Message(c.printer))
	}
	return err.Error()
}

func (c *Controller) convert(ctx context.Context, path string) error {
	data, err := c.bridge.ConvertToICO(ctx, path)
	if err != nil {
		return err
	}

	res, err := c.bridge.SaveFile(ctx, DefaultSaveName(path))
	if err != nil {
		return err
	}
	target, ok := Path(res)
	if !ok {
		c.view.ShowStatus(StatusInfo, c.printer.Sprintf(i18n.KeySaveCancelled))
		return nil
	}

	if _, err := c.bridge.WriteFile(ctx, target, data); err != nil {
		return err
	}
	c.view.ShowStatus(StatusSuccess, c.printer.Sprintf(i18n.KeySaved))
	return nil
}

// DefaultSaveName is the name offered by the save dialog for path.
func DefaultSaveName(path string) string {
	return processor.OutputFilename(path)
}
