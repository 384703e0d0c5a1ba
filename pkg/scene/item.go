package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/objectgrid/pkg/collection"
)

var (
	_ collection.Item      = (*Item)(nil)
	_ collection.Bounded   = (*Item)(nil)
	_ collection.Offsetter = (*Item)(nil)
)

// Item is one entry of a scene. It is owned by the Scene that loaded it and
// is handed to a collection as a read-only handle.
type Item struct {
	key    string
	name   string
	active bool
	index  int

	offset    mgl64.Vec3
	extent    mgl64.Vec3
	hasExtent bool
}

// NewItem returns an active item with no offset or bounding data.
func NewItem(key, name string, index int) *Item {
	return &Item{key: key, name: name, active: true, index: index}
}

func (it *Item) Key() string       { return it.key }
func (it *Item) Name() string      { return it.name }
func (it *Item) Active() bool      { return it.active }
func (it *Item) SiblingIndex() int { return it.index }

// Extent returns the item's bounding size, if the scene declared one.
func (it *Item) Extent() (mgl64.Vec3, bool) { return it.extent, it.hasExtent }

// LocalOffset returns the additive offset declared in the scene.
func (it *Item) LocalOffset() mgl64.Vec3 { return it.offset }

// SetActive toggles whether the item takes part in the layout.
func (it *Item) SetActive(active bool) { it.active = active }

// SetExtent sets the bounding size used to size scatter nodes.
func (it *Item) SetExtent(size mgl64.Vec3) {
	it.extent = size
	it.hasExtent = true
}

// SetOffset sets the additive offset applied when the item is first tracked.
func (it *Item) SetOffset(offset mgl64.Vec3) { it.offset = offset }
