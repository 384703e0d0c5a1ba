// Package layout defines the serialized form of a computed arrangement.
//
// A [Layout] is what the CLI writes next to a scene, what the HTTP API
// returns, and what the cache stores. It echoes the config and seed that
// produced it so a reader can tell how the placements were derived.
package layout

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/objectgrid/pkg/collection"
	"github.com/matzehuels/objectgrid/pkg/errors"
	"github.com/matzehuels/objectgrid/pkg/geom"
)

// =============================================================================
// Layout
// =============================================================================

// Layout is a complete arrangement of one scene.
type Layout struct {
	Scene string `json:"scene,omitempty"`

	Config collection.Config `json:"config"`
	Seed   uint64            `json:"seed,omitempty"`

	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Columns int     `json:"columns"`

	Placements []Placement `json:"placements"`
}

// Placement is the computed pose of one item in collection-local space.
type Placement struct {
	Key  string `json:"key"`
	Name string `json:"name"`

	Position [3]float64 `json:"position"`
	// Rotation is a unit quaternion ordered w, x, y, z.
	Rotation [4]float64 `json:"rotation"`
	Forward  [3]float64 `json:"forward"`

	// Radius is only set for scatter layouts.
	Radius float64 `json:"radius,omitempty"`
}

// FromCollection captures the last published arrangement of c.
func FromCollection(c *collection.Collection, scene string, seed uint64) Layout {
	l := FromNodes(c.Nodes(), c.Config())
	l.Scene = scene
	l.Seed = seed
	l.Width = c.Width()
	l.Height = c.Height()
	l.Columns = c.Columns()
	return l
}

// FromNodes converts nodes to placements. Width, height and columns are left
// for the caller to fill in.
func FromNodes(nodes []collection.Node, cfg collection.Config) Layout {
	l := Layout{Config: cfg, Placements: make([]Placement, len(nodes))}
	for i, n := range nodes {
		p := Placement{
			Key:      n.Key(),
			Name:     n.Name,
			Position: n.Position,
			Rotation: [4]float64{n.Rotation.W, n.Rotation.X(), n.Rotation.Y(), n.Rotation.Z()},
			Forward:  n.Forward(),
		}
		if cfg.Surface == collection.SurfaceScatter {
			p.Radius = n.Radius
		}
		l.Placements[i] = p
	}
	return l
}

// Quat returns the placement rotation as a quaternion.
func (p Placement) Quat() mgl64.Quat {
	return mgl64.Quat{W: p.Rotation[0], V: mgl64.Vec3{p.Rotation[1], p.Rotation[2], p.Rotation[3]}}
}

// Find returns the placement with the given key.
func (l *Layout) Find(key string) (Placement, bool) {
	for _, p := range l.Placements {
		if p.Key == key {
			return p, true
		}
	}
	return Placement{}, false
}

// Bounds returns the axis-aligned box spanned by the placement positions.
// Both corners are zero for an empty layout.
func (l *Layout) Bounds() (lo, hi mgl64.Vec3) {
	if len(l.Placements) == 0 {
		return lo, hi
	}
	lo = mgl64.Vec3(l.Placements[0].Position)
	hi = lo
	for _, p := range l.Placements[1:] {
		for axis, v := range p.Position {
			lo[axis] = math.Min(lo[axis], v)
			hi[axis] = math.Max(hi[axis], v)
		}
	}
	return lo, hi
}

// Overlaps counts the placement pairs whose planar footprints intersect,
// along with the total number of pairs. It agrees with
// [collection.Overlaps] on the nodes the layout was built from.
func (l *Layout) Overlaps() (overlapping, pairs int) {
	ps := l.Placements
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			pairs++
			d := geom.Planar(mgl64.Vec3(ps[j].Position).Sub(mgl64.Vec3(ps[i].Position)))
			cr := ps[i].Radius + ps[j].Radius
			if d.Dot(d) < cr*cr {
				overlapping++
			}
		}
	}
	return overlapping, pairs
}

// Validate checks structural integrity: unique non-empty keys and finite
// numbers throughout.
func (l *Layout) Validate() error {
	seen := make(map[string]struct{}, len(l.Placements))
	for i, p := range l.Placements {
		if p.Key == "" {
			return errors.New(errors.ErrCodeInvalidInput, "placement %d has no key", i)
		}
		if _, dup := seen[p.Key]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate placement key %q", p.Key)
		}
		seen[p.Key] = struct{}{}
		for _, v := range append(append(p.Position[:], p.Rotation[:]...), p.Radius) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeInvalidInput, "placement %q has a non-finite value", p.Key)
			}
		}
	}
	return nil
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal decodes and validates a Layout.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
