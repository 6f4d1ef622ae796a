// Package chroot keeps a cache of per-interpreter environment directories
// for the runtime-bearing targets of an export.
//
// A chroot is identified by a deterministic key derived from its manifest
// (interpreter, targets, requirements and sources), so exporting an
// unchanged graph reuses the same directory. Materialized chroots are
// indexed in SQLite and memoized in-process.
package chroot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/leapstack-labs/buildexport/internal/dag"
	"github.com/leapstack-labs/buildexport/internal/interpreter"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// ManifestFile is the name of the manifest written into every chroot.
const ManifestFile = "chroot.json"

const defaultMemoSize = 128

var keySpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("buildexport/chroot"))

// Manifest describes what a chroot was built from.
type Manifest struct {
	Interpreter  string   `json:"interpreter"`
	Binary       string   `json:"binary"`
	Targets      []string `json:"targets"`
	Requirements []string `json:"requirements"`
	Sources      []string `json:"sources"`
}

// Options configures a Cache.
type Options struct {
	// Dir is the directory chroots are created under
	Dir string
	// Index is the SQLite index path; empty means Dir/chroots.db
	Index    string
	MemoSize int
	Logger   *slog.Logger
}

// Cache materializes chroots on disk.
type Cache struct {
	dir    string
	store  *Store
	memo   *lru.Cache[string, string]
	logger *slog.Logger
	now    func() time.Time
}

// Open opens the cache, creating its directory and index as needed.
func Open(opts Options) (*Cache, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("chroot directory is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Index == "" {
		opts.Index = filepath.Join(opts.Dir, "chroots.db")
	}
	if opts.MemoSize <= 0 {
		opts.MemoSize = defaultMemoSize
	}

	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create chroot directory: %w", err)
	}
	if opts.Index != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(opts.Index), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create chroot index directory: %w", err)
		}
	}

	store, err := OpenStore(opts.Index)
	if err != nil {
		return nil, err
	}
	memo, err := lru.New[string, string](opts.MemoSize)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create chroot memo: %w", err)
	}

	return &Cache{
		dir:    opts.Dir,
		store:  store,
		memo:   memo,
		logger: opts.Logger,
		now:    time.Now,
	}, nil
}

// Close closes the index.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Store returns the index backing the cache.
func (c *Cache) Store() *Store {
	return c.store
}

// Materialize returns the chroot directory for the nodes assigned to
// interp, creating it when no matching chroot exists yet.
func (c *Cache) Materialize(ctx context.Context, interp *interpreter.Interpreter, nodes []*core.GraphNode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	manifest := BuildManifest(interp, nodes)
	key, err := manifestKey(manifest)
	if err != nil {
		return "", err
	}
	if dir, ok := c.memo.Get(key); ok {
		if exists(filepath.Join(dir, ManifestFile)) {
			return dir, nil
		}
		c.memo.Remove(key)
	}

	dir := filepath.Join(c.dir, manifest.Interpreter, key)
	now := c.now()

	rec, err := c.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if rec != nil && exists(filepath.Join(rec.Path, ManifestFile)) {
		if err := c.store.Touch(ctx, key, now); err != nil {
			return "", err
		}
		c.logger.Debug("reusing chroot", "interpreter", manifest.Interpreter, "path", rec.Path)
		c.memo.Add(key, rec.Path)
		return rec.Path, nil
	}

	if err := writeManifest(dir, manifest); err != nil {
		return "", err
	}
	err = c.store.Put(ctx, &Record{
		Key:         key,
		Interpreter: manifest.Interpreter,
		Binary:      manifest.Binary,
		Path:        dir,
		Targets:     len(manifest.Targets),
		CreatedAt:   now,
		LastUsedAt:  now,
	})
	if err != nil {
		return "", err
	}

	c.logger.Info("created chroot", "interpreter", manifest.Interpreter, "targets", len(manifest.Targets), "path", dir)
	c.memo.Add(key, dir)
	return dir, nil
}

// Prune drops index records whose directory no longer exists and returns
// how many were dropped.
func (c *Cache) Prune(ctx context.Context) (int, error) {
	records, err := c.store.List(ctx, "")
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, r := range records {
		if exists(filepath.Join(r.Path, ManifestFile)) {
			continue
		}
		if err := c.store.Delete(ctx, r.Key); err != nil {
			return pruned, err
		}
		c.memo.Remove(r.Key)
		c.logger.Debug("pruned chroot", "path", r.Path)
		pruned++
	}
	return pruned, nil
}

// BuildManifest describes the chroot for nodes: the nodes themselves plus
// the requirements and sources found in their closure, each once.
func BuildManifest(interp *interpreter.Interpreter, nodes []*core.GraphNode) Manifest {
	m := Manifest{
		Interpreter:  interp.Identity.String(),
		Binary:       interp.Binary,
		Targets:      make([]string, 0, len(nodes)),
		Requirements: []string{},
		Sources:      []string{},
	}
	for _, n := range nodes {
		m.Targets = append(m.Targets, n.Address)
	}
	slices.Sort(m.Targets)

	seenReq := make(map[string]bool)
	seenSrc := make(map[string]bool)
	for _, n := range dag.Closure(nodes, nil) {
		if n.Kind.IsRequirementBundle() {
			for _, r := range n.Requirements {
				if !seenReq[r] {
					seenReq[r] = true
					m.Requirements = append(m.Requirements, r)
				}
			}
		}
		if n.Kind.NeedsRuntime() {
			for _, s := range n.Sources {
				p := path.Join(n.TargetBase, s)
				if !seenSrc[p] {
					seenSrc[p] = true
					m.Sources = append(m.Sources, p)
				}
			}
		}
	}
	slices.Sort(m.Requirements)
	slices.Sort(m.Sources)
	return m
}

func manifestKey(m Manifest) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode chroot manifest: %w", err)
	}
	return uuid.NewSHA1(keySpace, data).String(), nil
}

// writeManifest creates dir and writes the manifest into it atomically.
func writeManifest(dir string, m Manifest) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create chroot: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chroot manifest: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ManifestFile+".*")
	if err != nil {
		return fmt.Errorf("failed to write chroot manifest: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write chroot manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write chroot manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, ManifestFile)); err != nil {
		return fmt.Errorf("failed to write chroot manifest: %w", err)
	}
	return nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// ReadManifest reads the manifest of the chroot at dir.
func ReadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return m, fmt.Errorf("failed to read chroot manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("invalid chroot manifest %s: %w", dir, err)
	}
	return m, nil
}
