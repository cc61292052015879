package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/valarz/go-press/pkg/interfaces"
)

const (
	defaultPattern = "*.md"
	draftPrefix    = "_"
)

// LoaderConfig configures how Markdown files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the directory the filesystem is rooted at. Absolute paths
	// passed to the loader are made relative to it.
	BasePath string
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into Markdown documents with metadata.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultPattern
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads and parses a single Markdown document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, err
	}

	return &DocumentResult{
		Document: doc,
		Source:   data,
	}, nil
}

// Discover lists the Markdown files under dir, sorted by path. Files whose
// name starts with an underscore are treated as drafts and skipped.
func (l *Loader) Discover(ctx context.Context, dir string, opts LoadParams) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if !l.shouldRecurse(root, current, opts.Recursive) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if strings.HasPrefix(d.Name(), draftPrefix) {
			return nil
		}
		if !l.matchesPattern(current, opts.Pattern) {
			return nil
		}
		paths = append(paths, current)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("markdown loader walk %s: %w", root, walkErr)
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadDirectory discovers Markdown files under dir and returns parsed
// documents. The first unreadable file aborts the load.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	paths, err := l.Discover(ctx, dir, opts)
	if err != nil {
		return nil, err
	}

	results := make([]*DocumentResult, 0, len(paths))
	for _, current := range paths {
		result, err := l.LoadFile(ctx, current)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (l *Loader) shouldRecurse(root, current string, override *bool) bool {
	recursive := l.recursive
	if override != nil {
		recursive = *override
	}
	if recursive {
		return true
	}
	// If recursion is disabled, only walk the root directory.
	return path.Clean(root) == path.Clean(current)
}

func (l *Loader) matchesPattern(current string, override string) bool {
	pattern := override
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		// Basic support for ** by stripping repeated separators.
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := path.Base(current)
	if strings.Contains(pattern, "/") {
		target = current
	}
	match, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

// makeRelative converts name into an fs.FS path.
func (l *Loader) makeRelative(name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" || l.basePath == "." {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	clean = filepath.ToSlash(clean)
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("markdown loader: path %s escapes the base directory", name)
	}
	return clean, nil
}

// DocumentResult carries the parsed document along with the raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams provide call-specific overrides for pattern matching.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}
