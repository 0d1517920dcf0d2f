package desktop

// SelectResult is the outcome of a file dialog: either Cancelled or
// Selected. Use a type switch or Path.
type SelectResult interface {
	isSelectResult()
}

// Cancelled means the dialog was dismissed or could not be shown.
type Cancelled struct{}

// Selected carries the chosen path.
type Selected struct {
	Path string
}

func (Cancelled) isSelectResult() {}
func (Selected) isSelectResult()  {}

// Path returns the selected path and true, or "" and false when r is not a
// selection.
func Path(r SelectResult) (string, bool) {
	s, ok := r.(Selected)
	if !ok || s.Path == "" {
		return "", false
	}
	return s.Path, true
}
