// Package fyneui runs the desktop converter on the fyne toolkit.
package fyneui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"go.uber.org/zap"

	"github.com/leeforge/genico/desktop"
	"github.com/leeforge/genico/i18n"
	"github.com/leeforge/genico/logging"
	"github.com/leeforge/genico/media/processor"
)

var windowSize = fyne.NewSize(800, 600)

// App wires the bridge, controller and screen to one fyne window.
type App struct {
	fyne       fyne.App
	window     fyne.Window
	info       desktop.AppInfo
	state      *desktop.WindowState
	bus        *desktop.EventBus
	bridge     *desktop.Bridge
	controller *desktop.Controller
	view       *View
	sub        desktop.Subscription
	logger     logging.Logger
	printer    *i18n.Printer
	dialogs    desktop.Dialogs
	bridgeOpts []desktop.BridgeOption

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*App)

func WithLogger(logger logging.Logger) Option {
	return func(a *App) { a.logger = logger }
}

func WithPrinter(printer *i18n.Printer) Option {
	return func(a *App) { a.printer = printer }
}

// WithDialogs replaces the fyne file dialogs.
func WithDialogs(dialogs desktop.Dialogs) Option {
	return func(a *App) { a.dialogs = dialogs }
}

// WithBridgeOptions passes options through to the desktop bridge, e.g. a
// size-capped file provider.
func WithBridgeOptions(opts ...desktop.BridgeOption) Option {
	return func(a *App) { a.bridgeOpts = append(a.bridgeOpts, opts...) }
}

func New(fa fyne.App, info desktop.AppInfo, converter *processor.Converter, opts ...Option) *App {
	a := &App{
		fyne:    fa,
		info:    info,
		state:   &desktop.WindowState{},
		logger:  logging.Nop(),
		printer: i18n.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.dialogs == nil {
		a.dialogs = NewDialogs(a.state)
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.bus = desktop.NewEventBus(16, a.logger.Named("events"))
	bridgeOpts := append([]desktop.BridgeOption{desktop.WithBridgeLogger(a.logger.Named("bridge"))}, a.bridgeOpts...)
	a.bridge = desktop.NewBridge(converter, a.dialogs, a.state, a.bus, bridgeOpts...)

	a.view = NewView(info.Title, a.printer)
	a.controller = desktop.NewController(a.bridge, a.view, a.printer)
	a.sub = a.controller.Listen()
	a.view.Bind(a.selectFile, a.convert)

	a.window = fa.NewWindow(info.Title)
	a.window.Resize(windowSize)
	a.window.SetContent(a.view.Content())
	a.window.SetMainMenu(a.mainMenu())
	a.window.SetOnDropped(a.dropped)
	a.window.SetOnClosed(a.closed)
	a.state.Attach(a.window)

	return a
}

func (a *App) Window() fyne.Window {
	return a.window
}

func (a *App) Bridge() *desktop.Bridge {
	return a.bridge
}

func (a *App) Controller() *desktop.Controller {
	return a.controller
}

// Run shows the window and blocks until the app quits.
func (a *App) Run() {
	a.logger.Info("desktop app started", zap.String("version", a.info.Version))
	a.window.ShowAndRun()
}

func (a *App) mainMenu() *fyne.MainMenu {
	open := fyne.NewMenuItem("Open PNG File", func() {
		go func() {
			if err := a.bridge.OpenFromMenu(a.ctx); err != nil {
				a.logger.Warn("open from menu failed", zap.Error(err))
			}
		}()
	})
	exit := fyne.NewMenuItem("Exit", a.fyne.Quit)
	exit.IsQuit = true

	about := fyne.NewMenuItem("About "+a.info.Name, a.showAbout)

	return fyne.NewMainMenu(
		fyne.NewMenu("File", open, fyne.NewMenuItemSeparator(), exit),
		fyne.NewMenu("Help", about),
	)
}

func (a *App) showAbout() {
	dialog.ShowInformation("About "+a.info.Name, a.aboutText(), a.window)
}

func (a *App) aboutText() string {
	return fmt.Sprintf("%s\nVersion: %s\n\n%s", a.info.Title, a.info.Version, a.info.Detail)
}

func (a *App) selectFile() {
	go func() {
		if err := a.controller.SelectFile(a.ctx); err != nil {
			a.logger.Warn("select-file failed", zap.Error(err))
		}
	}()
}

func (a *App) convert() {
	go func() {
		if err := a.controller.Convert(a.ctx); err != nil {
			a.logger.Info("convert-to-ico failed", zap.Error(err))
		}
	}()
}

// dropped selects the first dropped PNG through the file-selected event.
func (a *App) dropped(_ fyne.Position, uris []fyne.URI) {
	for _, u := range uris {
		if !strings.EqualFold(u.Extension(), ".png") {
			continue
		}
		path := u.Path()
		go func() {
			if err := a.bus.Publish(a.ctx, desktop.Event{Name: desktop.EventFileSelected, Payload: path}); err != nil {
				a.logger.Warn("publish dropped file failed", zap.Error(err))
			}
		}()
		return
	}
	a.view.ShowStatus(desktop.StatusError, a.printer.Sprintf(i18n.KeyNotPNG))
}

func (a *App) closed() {
	a.state.Detach()
	a.cancel()
	a.sub.Unsubscribe()
	if err := a.bus.Close(); err != nil {
		a.logger.Warn("close event bus", zap.Error(err))
	}
}
