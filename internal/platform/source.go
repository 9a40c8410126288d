package platform

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/aretw0/herd/pkg/adapters/fs"
	"github.com/aretw0/herd/pkg/collection"
	"github.com/aretw0/herd/pkg/core"
)

// Source keeps a record collection in step with a directory of data files.
// Every file contributes records; Source remembers which identifiers came from
// which file so a rewritten or deleted file takes its stale items with it.
//
// Like the collection it feeds, a Source is driven from a single goroutine.
type Source struct {
	root       string
	opts       *options
	collection *collection.Collection[core.Record]
	owned      map[string][]string // file path -> identifiers it contributed
	stamps     *fs.Stamps
	lastLoad   *time.Time
}

// NewSource creates a Source over root with an empty collection.
func NewSource(root string, opts ...Option) (*Source, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	parsers := fs.DefaultParsers(o.strict)
	maps.Copy(parsers, o.parsers)
	o.parsers = parsers

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	c, err := collection.New[core.Record](
		collection.WithIDAttribute[core.Record](o.idAttribute),
		collection.WithLogger[core.Record](o.logger),
	)
	if err != nil {
		return nil, err
	}

	return &Source{
		root:       abs,
		opts:       o,
		collection: c,
		owned:      make(map[string][]string),
		stamps:     fs.NewStamps(),
	}, nil
}

// Root returns the absolute directory being loaded.
func (s *Source) Root() string {
	return s.root
}

// Pattern returns the file selection pattern.
func (s *Source) Pattern() string {
	return s.opts.pattern
}

// Collection returns the collection the source feeds.
func (s *Source) Collection() *collection.Collection[core.Record] {
	return s.collection
}

// Load reconciles every matching file, in path order, as one batch.
// Files unchanged since they were last read are skipped, and files that no
// longer exist are forgotten. A file that fails is logged and skipped; the
// failures are returned together once every other file has been read.
func (s *Source) Load(ctx context.Context) error {
	paths, err := fs.Glob(s.root, s.opts.pattern)
	if err != nil {
		return err
	}
	var failed []error
	err = s.collection.Transact(func() error {
		for path := range s.owned {
			if !slices.Contains(paths, path) {
				s.forget(path)
			}
		}
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, known := s.owned[path]; known && !s.stamps.Changed(path) {
				continue
			}
			if err := s.reload(path); err != nil {
				s.opts.logger.Error("failed to reconcile file", "file", path, "error", err)
				failed = append(failed, err)
			}
		}
		return nil
	})
	if err == nil {
		err = errors.Join(failed...)
	}
	now := time.Now()
	s.lastLoad = &now
	return err
}

// Reload re-reads one file. Identifiers the file no longer carries are removed,
// unless another file still provides them.
func (s *Source) Reload(path string) error {
	return s.collection.Transact(func() error {
		return s.reload(path)
	})
}

// Forget removes the items a file contributed, e.g. after it was deleted.
func (s *Source) Forget(path string) {
	path = s.abs(path)
	_ = s.collection.Transact(func() error {
		s.forget(path)
		return nil
	})
}

func (s *Source) forget(path string) {
	s.release(path, nil)
	delete(s.owned, path)
	s.stamps.Forget(path)
}

// Files returns the files currently contributing records.
func (s *Source) Files() []string {
	return slices.Sorted(maps.Keys(s.owned))
}

func (s *Source) reload(path string) error {
	path = s.abs(path)
	records, err := fs.ReadFile(s.opts.parsers, path)
	if err != nil {
		return err
	}

	cfg := s.collection.Config()
	kept := make([]core.Record, 0, len(records))
	for i, rec := range records {
		// Items with a zero identifier can never be looked up again, so every
		// reload would add another copy.
		if id, ok := cfg.GetDataID(rec, cfg); !ok || (id != nil && core.IsZeroID(id)) {
			s.opts.logger.Warn("record without identifier skipped", "file", path, "index", i)
			continue
		}
		kept = append(kept, rec)
	}

	items, err := s.collection.SetMany(kept)
	ids := s.idsOf(items)
	if err != nil {
		// Records before the failure stay applied; the file keeps owning them
		// so a fix, a Forget or a deletion can release them.
		for _, id := range s.owned[path] {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		s.owned[path] = ids
		s.stamps.Forget(path)
		return fmt.Errorf("%s: %w", path, err)
	}

	s.release(path, ids)
	s.owned[path] = ids
	s.stamps.Record(path)
	s.opts.logger.Debug("file reconciled", "file", path, "records", len(records), "items", len(ids))
	return nil
}

// release removes the identifiers previously owned by path that are neither in keep
// nor provided by another file.
func (s *Source) release(path string, keep []string) {
	for _, id := range s.owned[path] {
		if slices.Contains(keep, id) || s.ownedElsewhere(path, id) {
			continue
		}
		s.collection.Remove(id)
	}
}

func (s *Source) ownedElsewhere(path, id string) bool {
	for other, ids := range s.owned {
		if other != path && slices.Contains(ids, id) {
			return true
		}
	}
	return false
}

func (s *Source) idsOf(items []core.Record) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id, ok := s.idOf(item); ok && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Source) idOf(item core.Record) (string, bool) {
	if item == nil {
		return "", false
	}
	cfg := s.collection.Config()
	raw, ok := cfg.GetModelID(item, cfg)
	if !ok || core.IsZeroID(raw) {
		return "", false
	}
	id, err := core.NormalizeID(raw)
	return id, err == nil
}

func (s *Source) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.root, path)
}
