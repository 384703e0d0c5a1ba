package collection

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/objectgrid/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultRows is the default number of rows per column.
	DefaultRows = 3

	// DefaultCellWidth is the default width of one grid cell.
	DefaultCellWidth = 0.5

	// DefaultCellHeight is the default height of one grid cell.
	DefaultCellHeight = 0.5

	// DefaultRadius is the default cylinder/sphere radius and scatter spread.
	DefaultRadius = 2.0

	// MinRecommendedRadius and MaxRecommendedRadius bound the radius range the
	// arrangement is tuned for. Values outside it are accepted.
	MinRecommendedRadius = 0.05
	MaxRecommendedRadius = 5.0

	// DefaultNodeRadius is the packing radius of a node without bounding data.
	DefaultNodeRadius = 1.0
)

// =============================================================================
// Config
// =============================================================================

// Config controls how a collection arranges its nodes.
type Config struct {
	Surface SurfaceType `json:"surface" toml:"surface"`
	Sort    SortType    `json:"sort" toml:"sort"`
	Orient  OrientType  `json:"orient" toml:"orient"`
	Layout  LayoutType  `json:"layout" toml:"layout"`

	// Rows is the number of rows per column; columns are derived.
	Rows int `json:"rows" toml:"rows"`

	CellWidth  float64 `json:"cell_width" toml:"cell_width"`
	CellHeight float64 `json:"cell_height" toml:"cell_height"`

	// Radius of the cylinder or sphere, the scatter spread, and the packing
	// padding. Ignored by the plane surface.
	Radius float64 `json:"radius" toml:"radius"`

	// IgnoreInactive treats inactive items as absent.
	IgnoreInactive bool `json:"ignore_inactive" toml:"ignore_inactive"`
}

// DefaultConfig returns a plane layout of three rows of half-unit cells,
// facing origin, with inactive items ignored.
func DefaultConfig() Config {
	return Config{
		Surface:        SurfacePlane,
		Sort:           SortNone,
		Orient:         OrientFaceOrigin,
		Layout:         LayoutColumnThenRow,
		Rows:           DefaultRows,
		CellWidth:      DefaultCellWidth,
		CellHeight:     DefaultCellHeight,
		Radius:         DefaultRadius,
		IgnoreInactive: true,
	}
}

// Validate checks every setting a recompute depends on except the
// orientation, which is resolved when nodes are projected.
func (c Config) Validate() error {
	if !c.Surface.Valid() {
		return errors.New(errors.ErrCodeInvalidSurface, "unknown surface %s", c.Surface)
	}
	if !c.Sort.Valid() {
		return errors.New(errors.ErrCodeInvalidSort, "unknown sort %s", c.Sort)
	}
	if !c.Layout.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %s", c.Layout)
	}
	if err := errors.ValidateRows(c.Rows); err != nil {
		return err
	}
	if err := errors.ValidateCellSize("cell width", c.CellWidth); err != nil {
		return err
	}
	if err := errors.ValidateCellSize("cell height", c.CellHeight); err != nil {
		return err
	}
	if c.Surface.Wraps() {
		if err := errors.ValidateRadius(c.Surface.String(), c.Radius); err != nil {
			return err
		}
	}
	return nil
}

// Circumference returns 2πr for the configured radius.
func (c Config) Circumference() float64 {
	return 2 * math.Pi * c.Radius
}

// HalfCell returns half the cell width and height.
func (c Config) HalfCell() mgl64.Vec2 {
	return mgl64.Vec2{c.CellWidth / 2, c.CellHeight / 2}
}

// Columns returns the number of columns needed for n nodes in rows rows.
// It is 0 for an empty collection or a non-positive row count.
func Columns(n, rows int) int {
	if n <= 0 || rows <= 0 {
		return 0
	}
	return (n + rows - 1) / rows
}
