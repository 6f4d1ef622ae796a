package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/buildexport/internal/chroot"
	"github.com/leapstack-labs/buildexport/internal/cli/config"
	"github.com/leapstack-labs/buildexport/internal/export"
	"github.com/leapstack-labs/buildexport/internal/interpreter"
	"github.com/leapstack-labs/buildexport/internal/jvm"
	"github.com/leapstack-labs/buildexport/internal/loader"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger

	settings jvm.Settings
	locator  *jvm.Locator
	pool     *interpreter.Pool
	chroots  *lazyChroots
}

// NewCommandContext builds the exporter collaborators from the current
// configuration. The returned cleanup function must be called (typically via
// defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := config.GetLogger(cmd.Context())

	settings, err := jvm.SettingsFromConfig(cfg.JVM)
	if err != nil {
		return nil, nil, fmt.Errorf("jvm settings: %w", err)
	}
	locator, err := jvm.NewLocatorFromConfig(cfg.JVM, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("jvm distributions: %w", err)
	}
	pool, err := interpreter.NewPoolFromConfig(cfg.Python, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("python interpreters: %w", err)
	}

	chroots := &lazyChroots{opts: chroot.Options{
		Dir:    cfg.Python.ChrootDir,
		Index:  cfg.Python.CacheDB,
		Logger: logger,
	}}
	cleanup := func() {
		if err := chroots.Close(); err != nil {
			logger.Warn("failed to close chroot cache", "error", err)
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		settings: settings,
		locator:  locator,
		pool:     pool,
		chroots:  chroots,
	}, cleanup, nil
}

// getConfig returns the current configuration, loading it without flags
// when the root command did not.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

// LoadGraph reads the configured graph file and resolves the root targets.
// No addresses selects the graph's declared roots.
func (c *CommandContext) LoadGraph(ctx context.Context, addresses []string) (*loader.Graph, []*core.GraphNode, error) {
	g, err := loader.NewGraphLoader(c.Cfg.BuildRoot, c.Logger).Load(ctx, c.Cfg.Graph)
	if err != nil {
		return nil, nil, err
	}
	roots, err := g.Roots(addresses...)
	if err != nil {
		return nil, nil, err
	}
	return g, roots, nil
}

// Export loads the graph and classpath and runs one export.
func (c *CommandContext) Export(ctx context.Context, addresses []string) (*core.GraphInfo, error) {
	_, roots, err := c.LoadGraph(ctx, addresses)
	if err != nil {
		return nil, err
	}

	opts := export.Options{
		IncludeSources: c.Cfg.Sources,
		Runtimes:       c.pool,
		Environments:   c.chroots,
		Platforms:      c.settings,
		Distributions:  c.locator,
		Logger:         c.Logger,
	}

	switch {
	case !c.Cfg.Libraries:
	case c.Cfg.Classpath == "":
		c.Logger.Info("no classpath file configured, libraries will be empty")
	default:
		cp, err := loader.LoadClasspath(c.Cfg.Classpath, loader.ClasspathOptions{
			Sources:  c.Cfg.LibrariesSources,
			Javadocs: c.Cfg.LibrariesJavadocs,
		})
		if err != nil {
			return nil, err
		}
		opts.Classpath = cp
	}

	return export.New(opts).Export(ctx, roots)
}

// lazyChroots opens the chroot cache on first use so exports without
// Python targets never touch the work directory.
type lazyChroots struct {
	opts chroot.Options

	mu    sync.Mutex
	cache *chroot.Cache
}

func (l *lazyChroots) open() (*chroot.Cache, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cache == nil {
		c, err := chroot.Open(l.opts)
		if err != nil {
			return nil, err
		}
		l.cache = c
	}
	return l.cache, nil
}

// Materialize implements export.EnvironmentBuilder.
func (l *lazyChroots) Materialize(ctx context.Context, interp *interpreter.Interpreter, nodes []*core.GraphNode) (string, error) {
	c, err := l.open()
	if err != nil {
		return "", err
	}
	return c.Materialize(ctx, interp, nodes)
}

// Close closes the cache if it was opened.
func (l *lazyChroots) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cache == nil {
		return nil
	}
	err := l.cache.Close()
	l.cache = nil
	return err
}
