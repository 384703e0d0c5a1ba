// Package pipeline runs the scene → collection → layout pipeline shared by
// the CLI and the HTTP server.
//
// # Stages
//
//  1. Parse: decode the scene bytes into items and collection overrides
//  2. Configure: merge the base config, the scene's [collection] table and
//     explicit overrides, in that order
//  3. Arrange: run one full collection recompute
//  4. Serialize: convert the arrangement into a [layout.Layout]
//
// Results are cached by the scene hash and every setting that shapes the
// arrangement, so a repeated run with the same inputs skips stage 3.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Layout(ctx, pipeline.Options{
//	    Scene:  data,
//	    Format: scene.FormatTOML,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(res.Layout.Placements), res.CacheHit)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/objectgrid/pkg/collection"
	"github.com/matzehuels/objectgrid/pkg/errors"
	"github.com/matzehuels/objectgrid/pkg/layout"
	"github.com/matzehuels/objectgrid/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultSeed seeds scatter layouts when no seed is given.
const DefaultSeed = uint64(42)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Scene is the raw scene file content.
	Scene  []byte       `json:"-"`
	Format scene.Format `json:"format,omitempty"`

	// Name labels the layout when the scene declares no name.
	Name string `json:"name,omitempty"`

	// Base is the config the scene's [collection] table is applied to.
	// A zero Base means collection.DefaultConfig().
	Base collection.Config `json:"base"`

	// Overrides win over the scene's own settings.
	Overrides scene.Overrides `json:"overrides"`

	Seed    uint64 `json:"seed,omitempty"`
	Passes  int    `json:"passes,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = scene.FormatTOML
	}
	if o.Base == (collection.Config{}) {
		o.Base = collection.DefaultConfig()
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Passes <= 0 {
		o.Passes = collection.DefaultPackPasses
	}
}

// Resolve merges the base config, the scene's overrides and o.Overrides,
// then validates the result.
func (o *Options) Resolve(s *scene.Scene) (collection.Config, error) {
	cfg, err := s.Config(o.Base)
	if err != nil {
		return cfg, err
	}
	if cfg, err = o.Overrides.Apply(cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if !cfg.Orient.Valid() {
		return cfg, errors.New(errors.ErrCodeInvalidOrient, "unknown orientation %s", cfg.Orient)
	}
	return cfg, nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of one pipeline run.
type Result struct {
	Layout layout.Layout

	// Data is Layout serialized with layout.Marshal.
	Data []byte

	// SceneHash is the SHA-256 of the scene bytes.
	SceneHash string

	CacheHit bool
	Stats    Stats
}

// Stats describes a run.
type Stats struct {
	Items    int
	Nodes    int
	Duration time.Duration

	// Overlapping and Pairs count intersecting footprints after packing.
	// They are only set for scatter layouts.
	Overlapping int
	Pairs       int
}
