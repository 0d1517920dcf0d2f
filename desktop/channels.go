// Package desktop holds the privileged side of the desktop app: the
// request/response channels the UI invokes, the push events it listens to
// and the state shared between them. It has no GUI dependency; see
// desktop/fyneui for the toolkit binding.
package desktop

// Channel names a request/response operation the UI can invoke.
type Channel string

const (
	ChannelSelectFile   Channel = "select-file"
	ChannelConvertToICO Channel = "convert-to-ico"
	ChannelSaveFile     Channel = "save-file"
	ChannelWriteFile    Channel = "write-file"
)

// EventFileSelected is pushed to the UI when a file was picked outside of
// a select-file request, e.g. from the File menu. Its payload is the path.
const EventFileSelected = "file-selected"

// Channels lists every request/response channel.
func Channels() []Channel {
	return []Channel{ChannelSelectFile, ChannelConvertToICO, ChannelSaveFile, ChannelWriteFile}
}

// FileFilter restricts a file dialog to some extensions.
type FileFilter struct {
	Name       string
	Extensions []string
}

var (
	PNGFilter = FileFilter{Name: "PNG Images", Extensions: []string{".png"}}
	ICOFilter = FileFilter{Name: "ICO Files", Extensions: []string{".ico"}}
)

// AppInfo is shown in the About dialog and the window title.
type AppInfo struct {
	Name    string
	Title   string
	Version string
	Detail  string
}

func DefaultAppInfo(version string) AppInfo {
	return AppInfo{
		Name:    "Genico",
		Title:   "Genico - PNG to ICO Converter",
		Version: version,
		Detail:  "A desktop application for converting PNG images to Windows ICO format.",
	}
}
