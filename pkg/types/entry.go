package types

// Entry is a single row in the file browser: the parent shortcut, a
// directory, or a selectable backup file.
type Entry struct {
	Name   string
	Path   string
	IsDir  bool
	Parent bool // the ".." pseudo-entry
}

// DisplayName returns the label the browser renders for the entry.
func (e Entry) DisplayName() string {
	if e.Parent {
		return ".."
	}
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}
