package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"srvhelper/internal/errors"
	"srvhelper/pkg/types"
)

// Lister reads the entries of a directory. The browser goes through this
// interface so tests can feed it fixed listings.
type Lister interface {
	List(dir string) ([]types.Entry, error)
}

// FSLister lists real directories, filtering files to the configured
// backup pattern. Directories always show so the operator can navigate.
type FSLister struct {
	Pattern    glob.Glob // nil shows every file
	ShowHidden bool
}

// List implements Lister.
func (l FSLister) List(dir string) ([]types.Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("directory no longer exists", dir, errors.PathVanished, err)
		}
		return nil, errors.NewFileError("cannot read directory", dir, errors.DirUnreadable, err)
	}

	entries := make([]types.Entry, 0, len(dirents))
	for _, de := range dirents {
		name := de.Name()
		if !l.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !de.IsDir() && l.Pattern != nil && !l.Pattern.Match(name) {
			continue
		}
		entries = append(entries, types.Entry{
			Name:  name,
			Path:  filepath.Join(dir, name),
			IsDir: de.IsDir(),
		})
	}
	return entries, nil
}

// Browser is the state of the file-picking screen: the directory being
// shown, its sorted entries, and the cursor. It is created when the screen
// opens and discarded when it closes.
type Browser struct {
	lister  Lister
	dir     string
	entries []types.Entry
	index   int
	errMsg  string // inline error from the last failed listing
}

// NewBrowser opens a browser at start. A failed initial listing leaves the
// browser empty with the error shown inline.
func NewBrowser(lister Lister, start string) *Browser {
	b := &Browser{lister: lister, dir: start}
	b.load(start)
	return b
}

// load lists dir and replaces the browser state on success. On failure the
// last good listing stays put and the error is kept for display.
func (b *Browser) load(dir string) {
	listed, err := b.lister.List(dir)
	if err != nil {
		b.errMsg = err.Error()
		return
	}

	sortEntries(listed)
	if hasParent(dir) {
		listed = append([]types.Entry{{Parent: true, Path: filepath.Dir(dir)}}, listed...)
	}

	b.dir = dir
	b.entries = listed
	b.index = 0
	b.errMsg = ""
}

// sortEntries orders directories before files, each group
// case-insensitively by name.
func sortEntries(entries []types.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// hasParent reports whether dir has a parent directory. At a filesystem
// root filepath.Dir returns its argument unchanged.
func hasParent(dir string) bool {
	return filepath.Dir(dir) != dir
}

// Next moves the cursor down, wrapping.
func (b *Browser) Next() {
	if len(b.entries) == 0 {
		return
	}
	b.index = (b.index + 1) % len(b.entries)
}

// Previous moves the cursor up, wrapping.
func (b *Browser) Previous() {
	if len(b.entries) == 0 {
		return
	}
	b.index = (b.index - 1 + len(b.entries)) % len(b.entries)
}

// Confirm acts on the entry under the cursor: directories (and the ".."
// entry) are entered, files are returned as the picked path with ok true.
func (b *Browser) Confirm() (path string, ok bool) {
	if len(b.entries) == 0 {
		return "", false
	}
	entry := b.entries[b.index]
	switch {
	case entry.Parent:
		b.Parent()
	case entry.IsDir:
		b.load(entry.Path)
	default:
		return entry.Path, true
	}
	return "", false
}

// Parent moves to the parent directory; a no-op at a filesystem root.
func (b *Browser) Parent() {
	if !hasParent(b.dir) {
		return
	}
	b.load(filepath.Dir(b.dir))
}

// Reload re-lists the current directory, keeping the cursor on the same
// entry name when it survives the refresh.
func (b *Browser) Reload() {
	var selected string
	if len(b.entries) > 0 {
		selected = b.entries[b.index].Name
	}
	b.load(b.dir)
	for i, e := range b.entries {
		if !e.Parent && e.Name == selected {
			b.index = i
			break
		}
	}
}

// Dir returns the directory being shown.
func (b *Browser) Dir() string {
	return b.dir
}

// Entries returns the sorted listing, parent entry first when present.
func (b *Browser) Entries() []types.Entry {
	return b.entries
}

// Index returns the cursor position.
func (b *Browser) Index() int {
	return b.index
}

// Err returns the inline error to display, empty when the last listing
// succeeded.
func (b *Browser) Err() string {
	return b.errMsg
}
