package fs

import (
	"os"
	"time"
)

type stamp struct {
	modTime time.Time
	size    int64
}

// Stamps remembers the modification time and size of files already read, so
// a full reload can skip files that did not change.
type Stamps struct {
	entries map[string]stamp
}

// NewStamps returns an empty set of stamps.
func NewStamps() *Stamps {
	return &Stamps{entries: make(map[string]stamp)}
}

// Changed reports whether path differs from its recorded stamp.
// Unknown and unreadable files count as changed.
func (s *Stamps) Changed(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	prev, ok := s.entries[path]
	return !ok || !prev.modTime.Equal(info.ModTime()) || prev.size != info.Size()
}

// Record stores the current stamp of path.
func (s *Stamps) Record(path string) {
	info, err := os.Stat(path)
	if err != nil {
		delete(s.entries, path)
		return
	}
	s.entries[path] = stamp{modTime: info.ModTime(), size: info.Size()}
}

// Forget drops the stamp of path.
func (s *Stamps) Forget(path string) {
	delete(s.entries, path)
}

// Len returns the number of recorded files.
func (s *Stamps) Len() int {
	return len(s.entries)
}
