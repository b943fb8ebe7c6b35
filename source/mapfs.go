package source

import (
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// MapFS is an in-memory fs.FS keyed by full slash-separated path to
// file content, adapted from the teacher's go/mapfs.MapFS (which maps
// flat basenames to real on-disk files) into a proper nested tree of
// synthetic content, so include-resolution tests can exercise `**`/`*`
// glob expansion across several directory levels without touching the
// real filesystem.
type MapFS map[string]string

var _ fs.FS = MapFS(nil)
var _ fs.ReadDirFS = MapFS(nil)

func (m MapFS) Open(name string) (fs.File, error) {
	name = strings.TrimPrefix(name, "/")
	if content, ok := m[name]; ok {
		return &mapFile{name: path.Base(name), r: strings.NewReader(content), size: int64(len(content))}, nil
	}
	if name == "." || m.isDir(name) {
		entries, err := m.ReadDir(name)
		if err != nil {
			return nil, err
		}
		return &mapDir{name: path.Base(name), entries: entries}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (m MapFS) isDir(name string) bool {
	prefix := name + "/"
	if name == "." || name == "" {
		return true
	}
	for p := range m {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (m MapFS) ReadDir(name string) ([]fs.DirEntry, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "." {
		name = ""
	}
	if name != "" && !m.isDir(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	seen := map[string]bool{}
	var entries []fs.DirEntry
	prefix := ""
	if name != "" {
		prefix = name + "/"
	}
	for p, content := range m {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if rest == "" {
			continue
		}
		seg, isDir := rest, false
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			seg, isDir = rest[:i], true
		}
		if seen[seg] {
			continue
		}
		seen[seg] = true
		if isDir {
			entries = append(entries, mapDirEntry{name: seg, isDir: true})
		} else {
			entries = append(entries, mapDirEntry{name: seg, size: int64(len(content))})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// mapDirEntry implements fs.DirEntry over a synthetic MapFS entry.
type mapDirEntry struct {
	name  string
	isDir bool
	size  int64
}

func (e mapDirEntry) Name() string { return e.name }
func (e mapDirEntry) IsDir() bool  { return e.isDir }
func (e mapDirEntry) Type() fs.FileMode {
	if e.isDir {
		return fs.ModeDir
	}
	return 0
}
func (e mapDirEntry) Info() (fs.FileInfo, error) { return mapFileInfo(e), nil }

type mapFileInfo mapDirEntry

func (i mapFileInfo) Name() string       { return i.name }
func (i mapFileInfo) Size() int64        { return i.size }
func (i mapFileInfo) Mode() fs.FileMode  { return mapDirEntry(i).Type() }
func (i mapFileInfo) ModTime() time.Time { return time.Time{} }
func (i mapFileInfo) IsDir() bool        { return i.isDir }
func (i mapFileInfo) Sys() any           { return nil }

// mapFile implements fs.File for one in-memory MapFS entry.
type mapFile struct {
	name string
	r    *strings.Reader
	size int64
}

func (f *mapFile) Stat() (fs.FileInfo, error) {
	return mapFileInfo{name: f.name, size: f.size}, nil
}
func (f *mapFile) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *mapFile) Close() error                { return nil }

// mapDir implements fs.File + fs.ReadDirFile for a synthetic directory.
type mapDir struct {
	name    string
	entries []fs.DirEntry
	pos     int
}

func (d *mapDir) Stat() (fs.FileInfo, error) { return mapFileInfo{name: d.name, isDir: true}, nil }
func (d *mapDir) Read([]byte) (int, error)   { return 0, io.EOF }
func (d *mapDir) Close() error                { return nil }
func (d *mapDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.pos >= len(d.entries) {
		if n <= 0 {
			return nil, nil
		}
		return nil, io.EOF
	}
	if n <= 0 || d.pos+n > len(d.entries) {
		n = len(d.entries) - d.pos
	}
	out := d.entries[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}
