package fyneui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/leeforge/genico/desktop"
	"github.com/leeforge/genico/i18n"
)

// View is the converter screen. Every update is marshalled onto the fyne
// goroutine so it can be driven from conversion workers.
type View struct {
	file    *widget.Label
	status  *widget.Label
	choose  *widget.Button
	convert *widget.Button
	content fyne.CanvasObject
}

func NewView(title string, printer *i18n.Printer) *View {
	if printer == nil {
		printer = i18n.Default()
	}

	v := &View{
		file:   widget.NewLabel(printer.Sprintf(i18n.KeyNoFileSelected)),
		status: widget.NewLabel(""),
	}
	v.file.Alignment = fyne.TextAlignCenter
	v.status.Alignment = fyne.TextAlignCenter
	v.status.Wrapping = fyne.TextWrapWord

	v.choose = widget.NewButtonWithIcon("Select PNG", theme.FolderOpenIcon(), nil)
	v.convert = widget.NewButtonWithIcon("Convert to ICO", theme.DocumentSaveIcon(), nil)
	v.convert.Importance = widget.HighImportance

	v.content = container.NewPadded(container.NewVBox(
		widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		widget.NewCard("", "", container.NewPadded(container.NewVBox(
			widget.NewIcon(theme.FileImageIcon()),
			v.file,
		))),
		container.NewGridWithColumns(2, v.choose, v.convert),
		v.status,
	))
	return v
}

// Bind sets the button actions.
func (v *View) Bind(onSelect, onConvert func()) {
	v.choose.OnTapped = onSelect
	v.convert.OnTapped = onConvert
}

func (v *View) Content() fyne.CanvasObject {
	return v.content
}

func (v *View) ShowSelected(name string) {
	fyne.Do(func() { v.file.SetText(name) })
}

func (v *View) ShowStatus(kind desktop.StatusKind, message string) {
	fyne.Do(func() {
		v.status.Importance = importance(kind)
		v.status.SetText(message)
	})
}

func (v *View) SetConverting(converting bool) {
	fyne.Do(func() {
		if converting {
			v.convert.Disable()
			v.choose.Disable()
			return
		}
		v.convert.Enable()
		v.choose.Enable()
	})
}

func importance(kind desktop.StatusKind) widget.Importance {
	switch kind {
	case desktop.StatusSuccess:
		return widget.SuccessImportance
	case desktop.StatusError:
		return widget.DangerImportance
	default:
		return widget.MediumImportance
	}
}
