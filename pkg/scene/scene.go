package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/matzehuels/objectgrid/pkg/collection"
	"github.com/matzehuels/objectgrid/pkg/errors"
)

// MaxItems bounds the number of items accepted from a single scene.
// Packing cost grows with the square of the item count.
const MaxItems = 10000

// itemNamespace seeds the name-based UUIDs given to items without an id.
var itemNamespace = uuid.MustParse("6f1c3d2a-8b4e-5f7a-9c0d-1e2f3a4b5c6d")

// =============================================================================
// Format
// =============================================================================

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidScene, "unsupported scene file %s (want .toml or .json)", filepath.Base(path))
}

// =============================================================================
// Scene
// =============================================================================

// Scene is a named set of items plus optional collection settings.
type Scene struct {
	Name string

	// Overrides holds the [collection] settings the file declared.
	Overrides Overrides

	items []*Item
}

// Overrides are collection settings declared by a scene. Unset fields leave
// the base config unchanged.
type Overrides struct {
	Surface        string   `toml:"surface" json:"surface,omitempty"`
	Sort           string   `toml:"sort" json:"sort,omitempty"`
	Orient         string   `toml:"orient" json:"orient,omitempty"`
	Layout         string   `toml:"layout" json:"layout,omitempty"`
	Rows           *int     `toml:"rows" json:"rows,omitempty"`
	CellWidth      *float64 `toml:"cell_width" json:"cell_width,omitempty"`
	CellHeight     *float64 `toml:"cell_height" json:"cell_height,omitempty"`
	Radius         *float64 `toml:"radius" json:"radius,omitempty"`
	IgnoreInactive *bool    `toml:"ignore_inactive" json:"ignore_inactive,omitempty"`
}

// Apply returns base with every declared setting replaced.
func (o Overrides) Apply(base collection.Config) (collection.Config, error) {
	cfg := base
	var err error
	if o.Surface != "" {
		if cfg.Surface, err = collection.ParseSurfaceType(o.Surface); err != nil {
			return base, err
		}
	}
	if o.Sort != "" {
		if cfg.Sort, err = collection.ParseSortType(o.Sort); err != nil {
			return base, err
		}
	}
	if o.Orient != "" {
		if cfg.Orient, err = collection.ParseOrientType(o.Orient); err != nil {
			return base, err
		}
	}
	if o.Layout != "" {
		if cfg.Layout, err = collection.ParseLayoutType(o.Layout); err != nil {
			return base, err
		}
	}
	if o.Rows != nil {
		cfg.Rows = *o.Rows
	}
	if o.CellWidth != nil {
		cfg.CellWidth = *o.CellWidth
	}
	if o.CellHeight != nil {
		cfg.CellHeight = *o.CellHeight
	}
	if o.Radius != nil {
		cfg.Radius = *o.Radius
	}
	if o.IgnoreInactive != nil {
		cfg.IgnoreInactive = *o.IgnoreInactive
	}
	return cfg, nil
}

// New returns a scene over the given items.
func New(name string, items ...*Item) *Scene {
	return &Scene{Name: name, items: items}
}

// Items returns the scene's items as collection handles, in file order.
func (s *Scene) Items() []collection.Item {
	out := make([]collection.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it
	}
	return out
}

// Item returns the item with the given key.
func (s *Scene) Item(key string) (*Item, bool) {
	for _, it := range s.items {
		if it.key == key {
			return it, true
		}
	}
	return nil, false
}

// Len returns the number of items.
func (s *Scene) Len() int { return len(s.items) }

// Config applies the scene's overrides to base.
func (s *Scene) Config(base collection.Config) (collection.Config, error) {
	return s.Overrides.Apply(base)
}

// =============================================================================
// Decoding
// =============================================================================

type file struct {
	Name       string     `toml:"name" json:"name"`
	Collection Overrides  `toml:"collection" json:"collection"`
	Items      []itemSpec `toml:"items" json:"items"`
}

type itemSpec struct {
	ID     string      `toml:"id" json:"id"`
	Name   string      `toml:"name" json:"name"`
	Active *bool       `toml:"active" json:"active"`
	Index  *int        `toml:"index" json:"index"`
	Offset [3]float64  `toml:"offset" json:"offset"`
	Extent *[3]float64 `toml:"extent" json:"extent"`
}

// Load reads a scene file, choosing the format from its extension.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a scene.
//
//	name = "shelf"
//
//	[collection]
//	surface = "cylinder"
//	rows = 2
//
//	[[items]]
//	id = "mug"
//	name = "Mug"
//	extent = [0.1, 0.12, 0.1]
//
// Items without an id get a UUID derived from their position and name, so
// parsing the same bytes twice yields the same keys. Items are active unless
// they say otherwise, and their sibling index defaults to their file position.
// Duplicate ids and negative extents are rejected.
func Parse(data []byte, format Format) (*Scene, error) {
	var f file
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown key %s", undecoded[0])
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidScene, "unknown scene format %q", format)
	}

	if len(f.Items) > MaxItems {
		return nil, errors.New(errors.ErrCodeInvalidScene, "too many items (max %d), got %d", MaxItems, len(f.Items))
	}

	s := &Scene{Name: f.Name, Overrides: f.Collection, items: make([]*Item, 0, len(f.Items))}
	seen := make(map[string]int, len(f.Items))
	for i, spec := range f.Items {
		it, err := spec.item(i)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[it.key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidScene, "items %d and %d share id %q", prev, i, it.key)
		}
		seen[it.key] = i
		s.items = append(s.items, it)
	}
	return s, nil
}

func (spec itemSpec) item(i int) (*Item, error) {
	key := spec.ID
	if key == "" {
		key = uuid.NewSHA1(itemNamespace, fmt.Appendf(nil, "%d/%s", i, spec.Name)).String()
	}
	name := spec.Name
	if name == "" {
		name = key
	}
	index := i
	if spec.Index != nil {
		index = *spec.Index
	}

	it := NewItem(key, name, index)
	if spec.Active != nil {
		it.active = *spec.Active
	}
	it.offset = mgl64.Vec3(spec.Offset)
	if spec.Extent != nil {
		size := mgl64.Vec3(*spec.Extent)
		if size.X() < 0 || size.Y() < 0 || size.Z() < 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "item %q: extent must not be negative, got %v", key, *spec.Extent)
		}
		it.SetExtent(size)
	}
	return it, nil
}
