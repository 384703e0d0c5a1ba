package collection

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/objectgrid/pkg/errors"
	"github.com/matzehuels/objectgrid/pkg/observability"
)

// =============================================================================
// Observers
// =============================================================================

// Event is delivered to observers after every successful recompute.
type Event struct {
	// Nodes is the published placement list. Observers must not modify it.
	Nodes  []Node
	Width  float64
	Height float64
}

// Observer is notified synchronously after a recompute succeeds.
type Observer interface {
	OnLayout(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnLayout calls f(e).
func (f ObserverFunc) OnLayout(e Event) { f(e) }

type subscription struct {
	id       int
	observer Observer
}

// =============================================================================
// Collection
// =============================================================================

// Collection tracks a set of caller-owned items and arranges them on a
// surface. Every Update recomputes the full arrangement from the tracked
// nodes and the current config.
//
// A Collection is not safe for concurrent use; callers must serialize calls.
type Collection struct {
	cfg    Config
	rng    *rand.Rand
	hooks  observability.CollectionHooks
	passes int

	nodes   []Node
	width   float64
	height  float64
	columns int

	observers []subscription
	nextID    int
}

// Option configures a Collection.
type Option func(*Collection)

// WithSeed seeds the scatter random source, making scatter layouts
// reproducible across runs.
func WithSeed(seed uint64) Option {
	return func(c *Collection) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	}
}

// WithRand sets the scatter random source. A nil source is ignored.
func WithRand(rng *rand.Rand) Option {
	return func(c *Collection) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithHooks sets the hooks that receive recompute events. By default the
// globally registered observability.Collection hooks are used.
func WithHooks(h observability.CollectionHooks) Option {
	return func(c *Collection) {
		c.hooks = h
	}
}

// WithPackPasses overrides the number of scatter relaxation passes.
// Values below 1 are ignored.
func WithPackPasses(n int) Option {
	return func(c *Collection) {
		if n > 0 {
			c.passes = n
		}
	}
}

// New returns an empty collection. The config is validated on every Update.
func New(cfg Config, opts ...Option) *Collection {
	c := &Collection{
		cfg:    cfg,
		passes: DefaultPackPasses,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// Update synchronizes the tracked nodes with items and recomputes every
// position and rotation. On success the new arrangement replaces the old one
// and observers are notified in subscription order. On failure the previous
// arrangement is left untouched and no observer is called.
func (c *Collection) Update(items []Item) error {
	hooks := c.recomputeHooks()
	start := time.Now()
	surface := c.cfg.Surface.String()

	if err := c.cfg.Validate(); err != nil {
		hooks.OnRecomputeStart(surface, len(c.nodes))
		hooks.OnRecomputeComplete(surface, len(c.nodes), time.Since(start), err)
		return err
	}

	nodes := Sync(c.nodes, items, c.cfg)
	hooks.OnRecomputeStart(surface, len(nodes))

	grid := BuildGrid(nodes, c.cfg)
	placed, err := Project(nodes, grid, c.cfg, c.rng)
	if err != nil {
		hooks.OnRecomputeComplete(surface, len(nodes), time.Since(start), err)
		return err
	}

	if c.cfg.Surface == SurfaceScatter {
		packStart := time.Now()
		placed = Pack(placed, c.cfg.Radius, c.passes)
		hooks.OnPack(len(placed), c.passes, time.Since(packStart))
	}

	c.nodes = placed
	c.width = grid.Width
	c.height = grid.Height
	c.columns = grid.Columns
	hooks.OnRecomputeComplete(surface, len(placed), time.Since(start), nil)

	c.notify()
	return nil
}

func (c *Collection) recomputeHooks() observability.CollectionHooks {
	if c.hooks != nil {
		return c.hooks
	}
	return observability.Collection()
}

func (c *Collection) notify() {
	if len(c.observers) == 0 {
		return
	}
	e := Event{Nodes: slices.Clone(c.nodes), Width: c.width, Height: c.height}
	// Observers may cancel during delivery.
	for _, s := range slices.Clone(c.observers) {
		s.observer.OnLayout(e)
	}
}

// Subscribe registers o for recompute notifications. The returned function
// removes it; calling it more than once is a no-op.
func (c *Collection) Subscribe(o Observer) (cancel func()) {
	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, subscription{id: id, observer: o})
	return func() {
		c.observers = slices.DeleteFunc(c.observers, func(s subscription) bool {
			return s.id == id
		})
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Nodes returns a copy of the published arrangement.
func (c *Collection) Nodes() []Node { return slices.Clone(c.nodes) }

// Len returns the number of published nodes.
func (c *Collection) Len() int { return len(c.nodes) }

// Width returns the arrangement width of the last recompute.
func (c *Collection) Width() float64 { return c.width }

// Height returns the arrangement height of the last recompute.
func (c *Collection) Height() float64 { return c.height }

// Columns returns the column count of the last recompute.
func (c *Collection) Columns() int { return c.columns }

// Config returns the current config.
func (c *Collection) Config() Config { return c.cfg }

// SetConfig replaces the config after validating it. The published
// arrangement is unchanged until the next Update.
func (c *Collection) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// Find returns the published node for key.
func (c *Collection) Find(key string) (Node, bool) {
	i := c.index(key)
	if i < 0 {
		return Node{}, false
	}
	return c.nodes[i], true
}

// SetOffset replaces the additive offset of a tracked node. It takes effect
// on the next Update.
func (c *Collection) SetOffset(key string, offset mgl64.Vec3) error {
	i := c.index(key)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "no tracked node with key %q", key)
	}
	nodes := slices.Clone(c.nodes)
	nodes[i].Offset = offset
	c.nodes = nodes
	return nil
}

func (c *Collection) index(key string) int {
	return slices.IndexFunc(c.nodes, func(n Node) bool {
		return n.Key() == key
	})
}
