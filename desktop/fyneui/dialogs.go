package fyneui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/leeforge/genico/desktop"
)

var dialogSize = fyne.NewSize(720, 520)

type pick struct {
	res desktop.SelectResult
	err error
}

// Dialogs shows fyne file dialogs over the window held in state.
type Dialogs struct {
	state *desktop.WindowState
}

func NewDialogs(state *desktop.WindowState) *Dialogs {
	return &Dialogs{state: state}
}

func (d *Dialogs) window() (fyne.Window, bool) {
	w, ok := d.state.Current()
	if !ok {
		return nil, false
	}
	fw, ok := w.(fyne.Window)
	return fw, ok
}

func (d *Dialogs) OpenFile(ctx context.Context, filter desktop.FileFilter) (desktop.SelectResult, error) {
	win, ok := d.window()
	if !ok {
		return desktop.Cancelled{}, nil
	}

	done := make(chan pick, 1)
	fyne.Do(func() {
		dlg := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			switch {
			case err != nil:
				done <- pick{err: err}
			case r == nil:
				done <- pick{res: desktop.Cancelled{}}
			default:
				_ = r.Close()
				done <- pick{res: desktop.Selected{Path: r.URI().Path()}}
			}
		}, win)
		dlg.SetFilter(storage.NewExtensionFileFilter(filter.Extensions))
		dlg.Resize(dialogSize)
		dlg.Show()
	})
	return wait(ctx, done)
}

// SaveFile asks for a target path. The dialog creates the file; the caller
// replaces it afterwards.
func (d *Dialogs) SaveFile(ctx context.Context, defaultName string, filter desktop.FileFilter) (desktop.SelectResult, error) {
	win, ok := d.window()
	if !ok {
		return desktop.Cancelled{}, nil
	}

	done := make(chan pick, 1)
	fyne.Do(func() {
		dlg := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			switch {
			case err != nil:
				done <- pick{err: err}
			case w == nil:
				done <- pick{res: desktop.Cancelled{}}
			default:
				_ = w.Close()
				done <- pick{res: desktop.Selected{Path: w.URI().Path()}}
			}
		}, win)
		dlg.SetFilter(storage.NewExtensionFileFilter(filter.Extensions))
		dlg.SetFileName(defaultName)
		dlg.Resize(dialogSize)
		dlg.Show()
	})
	return wait(ctx, done)
}

func wait(ctx context.Context, done <-chan pick) (desktop.SelectResult, error) {
	select {
	case p := <-done:
		return p.res, p.err
	case <-ctx.Done():
		return desktop.Cancelled{}, ctx.Err()
	}
}
