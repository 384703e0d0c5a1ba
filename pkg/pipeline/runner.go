package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/objectgrid/pkg/cache"
	"github.com/matzehuels/objectgrid/pkg/collection"
	"github.com/matzehuels/objectgrid/pkg/layout"
	"github.com/matzehuels/objectgrid/pkg/observability"
	"github.com/matzehuels/objectgrid/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Every call builds
// its own collection, so multiple goroutines can share a Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Layout parses the scene, resolves the config and returns the arrangement,
// from the cache when possible. Cache failures are logged and otherwise
// ignored.
func (r *Runner) Layout(ctx context.Context, opts Options) (res *Result, err error) {
	opts.SetDefaults()
	logger := r.logger(opts)
	start := time.Now()

	s, err := scene.Parse(opts.Scene, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if s.Name == "" {
		s.Name = opts.Name
	}
	cfg, err := opts.Resolve(s)
	if err != nil {
		return nil, fmt.Errorf("resolve config: %w", err)
	}

	hooks := observability.Pipeline()
	surface := cfg.Surface.String()
	hooks.OnLayoutStart(ctx, surface, s.Len())
	defer func() {
		hooks.OnLayoutComplete(ctx, surface, time.Since(start), err)
	}()

	res = &Result{SceneHash: cache.Hash(opts.Scene)}
	res.Stats.Items = s.Len()
	key := r.Keyer.LayoutKey(res.SceneHash, cache.LayoutKeyOpts{
		Scene:  s.Name,
		Config: cfg,
		Seed:   opts.Seed,
		Passes: opts.Passes,
	})

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, logger, key); ok {
			res.Layout = cached.l
			res.Data = cached.data
			res.CacheHit = true
			res.Stats.Nodes = len(cached.l.Placements)
			if cfg.Surface == collection.SurfaceScatter {
				res.Stats.Overlapping, res.Stats.Pairs = res.Layout.Overlaps()
			}
			res.Stats.Duration = time.Since(start)
			logger.Debug("layout cache hit", "scene", s.Name, "key", key)
			return res, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := collection.New(cfg,
		collection.WithSeed(opts.Seed),
		collection.WithPackPasses(opts.Passes))
	if err := c.Update(s.Items()); err != nil {
		return nil, fmt.Errorf("arrange: %w", err)
	}

	res.Layout = layout.FromCollection(c, s.Name, opts.Seed)
	res.Stats.Nodes = c.Len()
	if cfg.Surface == collection.SurfaceScatter {
		res.Stats.Overlapping, res.Stats.Pairs = res.Layout.Overlaps()
	}
	if res.Data, err = layout.Marshal(res.Layout); err != nil {
		return nil, fmt.Errorf("serialize layout: %w", err)
	}
	res.Stats.Duration = time.Since(start)

	if err := r.Cache.Set(ctx, key, res.Data, cache.DefaultTTL); err != nil {
		logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeLayout, len(res.Data))
	}

	logger.Info("computed layout",
		"scene", s.Name,
		"surface", surface,
		"nodes", res.Stats.Nodes,
		"duration", res.Stats.Duration)
	return res, nil
}

type cachedLayout struct {
	l    layout.Layout
	data []byte
}

func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key string) (cachedLayout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeLayout)
		return cachedLayout{}, false
	}
	l, err := layout.Unmarshal(data)
	if err != nil {
		logger.Debug("discarding unreadable cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeLayout)
		return cachedLayout{}, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyTypeLayout)
	return cachedLayout{l: l, data: data}, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
