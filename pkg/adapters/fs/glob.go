package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/herd/pkg/core"
)

// DefaultPattern matches every file a default parser understands.
const DefaultPattern = "**/*.{json,yaml,yml,csv,md}"

// Glob returns the files under root matching pattern, sorted, as paths joined with root.
func Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	return paths, nil
}

// Match reports whether path (relative to root) matches pattern.
func Match(root, pattern, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// ReadFile parses path with the parser registered for its extension.
func ReadFile(parsers map[string]Parser, path string) ([]core.Record, error) {
	p, ok := ParserFor(parsers, path)
	if !ok {
		return nil, fmt.Errorf("no parser for %s", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	records, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
