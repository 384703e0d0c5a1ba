package cache

import "github.com/matzehuels/objectgrid/pkg/collection"

// KeyTypeLayout labels layout entries in cache hooks.
const KeyTypeLayout = "layout"

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout computed from a scene.
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the scene bytes that shape a layout.
type LayoutKeyOpts struct {
	Scene  string            `json:"scene"`
	Config collection.Config `json:"config"`
	Seed   uint64            `json:"seed"`
	Passes int               `json:"passes"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>" over the scene hash and options.
func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
