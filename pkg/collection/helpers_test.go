package collection

import (
	"github.com/go-gl/mathgl/mgl64"
)

type testItem struct {
	key    string
	name   string
	active bool
	index  int

	extent    mgl64.Vec3
	hasExtent bool
	offset    mgl64.Vec3
}

func (t *testItem) Key() string                { return t.key }
func (t *testItem) Name() string               { return t.name }
func (t *testItem) Active() bool               { return t.active }
func (t *testItem) SiblingIndex() int          { return t.index }
func (t *testItem) Extent() (mgl64.Vec3, bool) { return t.extent, t.hasExtent }
func (t *testItem) LocalOffset() mgl64.Vec3    { return t.offset }

// plainItem implements only Item.
type plainItem struct{ key string }

func (p plainItem) Key() string       { return p.key }
func (p plainItem) Name() string      { return p.key }
func (p plainItem) Active() bool      { return true }
func (p plainItem) SiblingIndex() int { return 0 }

func item(key string) *testItem {
	return &testItem{key: key, name: key, active: true}
}

func items(keys ...string) []Item {
	out := make([]Item, len(keys))
	for i, k := range keys {
		it := item(k)
		it.index = i
		out[i] = it
	}
	return out
}

func names(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func gridConfig(rows int, cell float64) Config {
	cfg := DefaultConfig()
	cfg.Rows = rows
	cfg.CellWidth = cell
	cfg.CellHeight = cell
	return cfg
}

const tol = 1e-9
