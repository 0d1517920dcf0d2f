package fyneui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeforge/genico/desktop"
	"github.com/leeforge/genico/media/processor"
	"github.com/leeforge/genico/media/storage"
	gtesting "github.com/leeforge/genico/testing"
)

type stubDialogs struct {
	open desktop.SelectResult
	save desktop.SelectResult
}

func (d stubDialogs) OpenFile(context.Context, desktop.FileFilter) (desktop.SelectResult, error) {
	return d.open, nil
}

func (d stubDialogs) SaveFile(context.Context, string, desktop.FileFilter) (desktop.SelectResult, error) {
	return d.save, nil
}

func newApp(t *testing.T, dialogs desktop.Dialogs, opts ...Option) *App {
	t.Helper()
	fa := test.NewApp()
	t.Cleanup(fa.Quit)

	converter, err := processor.NewConverter(processor.DefaultOptions())
	require.NoError(t, err)
	return New(fa, desktop.DefaultAppInfo("1.2.3"), converter, append([]Option{WithDialogs(dialogs)}, opts...)...)
}

func TestWindowAndMenu(t *testing.T) {
	a := newApp(t, stubDialogs{open: desktop.Cancelled{}, save: desktop.Cancelled{}})
	w := a.Window()

	assert.Equal(t, "Genico - PNG to ICO Converter", w.Title())

	menu := w.MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "File", menu.Items[0].Label)
	assert.Equal(t, "Open PNG File", menu.Items[0].Items[0].Label)
	assert.True(t, menu.Items[0].Items[1].IsSeparator)
	assert.Equal(t, "Exit", menu.Items[0].Items[2].Label)
	assert.True(t, menu.Items[0].Items[2].IsQuit)
	assert.Equal(t, "Help", menu.Items[1].Label)
	assert.Equal(t, "About Genico", menu.Items[1].Items[0].Label)

	assert.Contains(t, a.aboutText(), "Version: 1.2.3")

	_, ok := a.Bridge().Window().Current()
	assert.True(t, ok)
}

func TestMenuOpenSelectsFile(t *testing.T) {
	a := newApp(t, stubDialogs{open: desktop.Selected{Path: "/pics/logo.png"}})

	a.Window().MainMenu().Items[0].Items[0].Action()

	assert.Eventually(t, func() bool {
		return a.Controller().Selected() == "/pics/logo.png"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConvertWritesIcon(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(src, gtesting.PNG(t, 320, 320), 0o644))
	target := filepath.Join(dir, "logo.ico")

	a := newApp(t, stubDialogs{save: desktop.Selected{Path: target}})
	a.Controller().HandleFileSelected(src)
	a.convert()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCloseDetachesWindow(t *testing.T) {
	a := newApp(t, stubDialogs{})
	a.Window().Close()

	_, ok := a.Bridge().Window().Current()
	assert.False(t, ok)

	res, err := a.Bridge().SelectFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, desktop.Cancelled{}, res)
}

func TestViewUpdates(t *testing.T) {
	fa := test.NewApp()
	defer fa.Quit()

	v := NewView("Genico", nil)
	assert.Equal(t, "No file selected", v.file.Text)

	v.ShowSelected("logo.png")
	assert.Equal(t, "logo.png", v.file.Text)

	v.ShowStatus(desktop.StatusError, "boom")
	assert.Equal(t, "boom", v.status.Text)
	assert.Equal(t, widget.DangerImportance, v.status.Importance)

	v.ShowStatus(desktop.StatusSuccess, "ok")
	assert.Equal(t, widget.SuccessImportance, v.status.Importance)

	v.SetConverting(true)
	assert.True(t, v.convert.Disabled())
	assert.True(t, v.choose.Disabled())
	v.SetConverting(false)
	assert.False(t, v.convert.Disabled())
}

func TestBridgeOptionsCapReads(t *testing.T) {
	src := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(src, gtesting.PNG(t, 320, 320), 0o644))

	a := newApp(t, stubDialogs{}, WithBridgeOptions(
		desktop.WithFiles(storage.NewLocalProvider("", storage.WithMaxRead(16))),
	))

	_, err := a.Bridge().ConvertToICO(context.Background(), src)
	assert.ErrorIs(t, err, storage.ErrTooLarge)
}
