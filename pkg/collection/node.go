package collection

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/objectgrid/pkg/geom"
)

// Item is a caller-owned handle the collection arranges.
// The collection never creates or destroys items; it only reads them.
type Item interface {
	// Key identifies the handle. Two items with the same key are the same handle.
	Key() string
	Name() string
	Active() bool
	// SiblingIndex is the item's declared position among its siblings.
	SiblingIndex() int
}

// Bounded is implemented by items that can report their bounding size.
// Extent returns false when no bounding data is available.
type Bounded interface {
	Extent() (mgl64.Vec3, bool)
}

// Offsetter is implemented by items that carry an initial additive offset.
// It is read once, when the item is first tracked.
type Offsetter interface {
	LocalOffset() mgl64.Vec3
}

// Node is a tracked item together with its computed placement.
type Node struct {
	Item Item `json:"-"`

	// Name is captured from the item when the node is first tracked.
	Name string `json:"name"`

	// Offset is added to the node's grid cell position.
	Offset mgl64.Vec3 `json:"offset"`

	// Radius is the packing radius; only scatter surfaces compute it.
	Radius float64 `json:"radius"`

	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Quat `json:"rotation"`
}

func newNode(it Item) Node {
	n := Node{
		Item:     it,
		Name:     it.Name(),
		Rotation: geom.Identity(),
	}
	if o, ok := it.(Offsetter); ok {
		n.Offset = o.LocalOffset()
	}
	return n
}

// Key returns the item key, or "" for a node without a handle.
func (n Node) Key() string {
	if isNull(n.Item) {
		return ""
	}
	return n.Item.Key()
}

// Forward returns the node's forward axis in collection space.
func (n Node) Forward() mgl64.Vec3 {
	return geom.ForwardOf(n.Rotation)
}

// packingRadius is half the largest bounding dimension, or DefaultNodeRadius.
func packingRadius(it Item) float64 {
	b, ok := it.(Bounded)
	if !ok {
		return DefaultNodeRadius
	}
	size, ok := b.Extent()
	if !ok {
		return DefaultNodeRadius
	}
	return max(size.X(), size.Y(), size.Z()) / 2
}
