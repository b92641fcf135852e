package resolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"schema-sentinel/core/snapshot"

	"github.com/gobwas/glob"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default search roots, in precedence order.
const (
	TestResources = "src/test/resources"
	MainResources = "src/main/resources"
	TestClasses   = "src/test/java"
	MainClasses   = "src/main/java"
)

const defaultWorkers = 8

var (
	// ErrEmptyIdentifier is returned for a blank identifier.
	ErrEmptyIdentifier = errors.New("empty identifier")

	// ErrInvalidPattern is returned when a glob identifier does not compile.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// Resolution is the outcome of looking up one identifier.
// Entry is only meaningful when Found is true.
type Resolution struct {
	Identifier string         `json:"identifier"`
	Entry      snapshot.Entry `json:"entry"`
	Found      bool           `json:"found"`
}

// Resolver looks identifiers up on the local filesystem.
type Resolver struct {
	baseDir string
	workers int
	logger  *zap.Logger
}

// NewResolver creates a resolver rooted at baseDir.
func NewResolver(baseDir string, workers int, logger *zap.Logger) *Resolver {
	if baseDir == "" {
		baseDir = "."
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{baseDir: baseDir, workers: workers, logger: logger}
}

// Roots returns the search roots in precedence order: primary, main, then additional.
func Roots(primary, main string, additional ...string) []string {
	roots := make([]string, 0, len(additional)+2)
	roots = append(roots, primary, main)
	return append(roots, additional...)
}

// ClassToPath maps a qualified class name to its source path: a.b.C becomes a/b/C.<ext>.
func ClassToPath(className, ext string) string {
	return strings.ReplaceAll(className, ".", "/") + "." + ext
}

// ResolveResources resolves resource files under the resource roots.
func (r *Resolver) ResolveResources(ctx context.Context, names, additional []string) ([]Resolution, error) {
	return r.resolve(ctx, "Resource", names, Roots(TestResources, MainResources, additional...), nil)
}

// ResolveClasses resolves class names to source files under the class roots.
func (r *Resolver) ResolveClasses(ctx context.Context, classNames, additional []string, ext string) ([]Resolution, error) {
	if ext == "" {
		ext = "java"
	}
	toPath := func(name string) string { return ClassToPath(name, ext) }
	return r.resolve(ctx, "Class", classNames, Roots(TestClasses, MainClasses, additional...), toPath)
}

// Resolve resolves plain paths against roots.
func (r *Resolver) Resolve(ctx context.Context, identifiers, roots []string) ([]Resolution, error) {
	return r.resolve(ctx, "File", identifiers, roots, nil)
}

// Entries returns the found entries without duplicate identities, in order.
func Entries(resolutions []Resolution) []snapshot.Entry {
	seen := make(map[string]struct{}, len(resolutions))
	entries := make([]snapshot.Entry, 0, len(resolutions))
	for _, res := range resolutions {
		if !res.Found {
			continue
		}
		if _, ok := seen[res.Entry.Identity]; ok {
			continue
		}
		seen[res.Entry.Identity] = struct{}{}
		entries = append(entries, res.Entry)
	}
	return entries
}

// target is one relative path to look up, produced from an identifier.
type target struct {
	identifier string
	rel        string
}

func (r *Resolver) resolve(ctx context.Context, kind string, identifiers, roots []string, toPath func(string) string) ([]Resolution, error) {
	targets, err := r.expand(ctx, identifiers, roots, toPath)
	if err != nil {
		return nil, err
	}

	results := make([]Resolution, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, t := range targets {
		results[i] = Resolution{Identifier: t.identifier}
		if t.rel == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, found, err := r.lookup(t.rel, roots)
			if err != nil {
				return err
			}
			results[i].Entry = entry
			results[i].Found = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		if !res.Found {
			r.logger.Warn(kind+" was not found: it will not be checked for modifications",
				zap.String("identifier", res.Identifier))
		}
	}
	return results, nil
}

// expand maps identifiers to relative paths. Glob identifiers yield one target per
// match; a glob matching nothing yields a single miss with an empty path.
func (r *Resolver) expand(ctx context.Context, identifiers, roots []string, toPath func(string) string) ([]target, error) {
	targets := make([]target, 0, len(identifiers))
	for _, id := range identifiers {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, ErrEmptyIdentifier
		}

		rel := id
		if toPath != nil {
			rel = toPath(id)
		}
		rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")

		if !isGlob(rel) {
			targets = append(targets, target{identifier: id, rel: rel})
			continue
		}

		matches, err := r.match(ctx, rel, roots)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			targets = append(targets, target{identifier: id})
			continue
		}
		for _, m := range matches {
			targets = append(targets, target{identifier: m, rel: m})
		}
	}
	return targets, nil
}

// match walks every root and returns the sorted union of relative paths matching pattern.
func (r *Resolver) match(ctx context.Context, pattern string, roots []string) ([]string, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPattern, pattern, err)
	}

	found := make(map[string]struct{})
	for _, root := range roots {
		dir := r.rootDir(root)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if g.Match(rel) {
				found[rel] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	matches := make([]string, 0, len(found))
	for m := range found {
		matches = append(matches, m)
	}
	sort.Strings(matches)
	return matches, nil
}

// lookup returns the entry for rel under the first root that holds it.
func (r *Resolver) lookup(rel string, roots []string) (snapshot.Entry, bool, error) {
	for _, root := range roots {
		identity := strings.TrimSuffix(filepath.ToSlash(root), "/") + "/" + rel
		info, err := os.Stat(filepath.Join(r.rootDir(root), filepath.FromSlash(rel)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return snapshot.Entry{}, false, fmt.Errorf("unable to get last modified time for %s: %w", identity, err)
		}
		return snapshot.NewEntry(identity, info.ModTime()), true, nil
	}
	return snapshot.Entry{}, false, nil
}

// rootDir locates root on disk. Relative roots are taken from the base directory.
func (r *Resolver) rootDir(root string) string {
	root = filepath.FromSlash(root)
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(r.baseDir, root)
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
