package collection

import (
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/objectgrid/pkg/errors"
	"github.com/matzehuels/objectgrid/pkg/geom"
)

// =============================================================================
// Surface Mappings
// =============================================================================

// mapping projects one grid cell onto a surface.
type mapping func(cell mgl64.Vec3, cfg Config, rng *rand.Rand) mgl64.Vec3

var mappings = map[SurfaceType]mapping{
	SurfacePlane:    planar,
	SurfaceCylinder: cylindrical,
	SurfaceSphere:   spherical,
	SurfaceScatter:  scattered,
}

func planar(cell mgl64.Vec3, _ Config, _ *rand.Rand) mgl64.Vec3 {
	return cell
}

// cylindrical keeps Y and wraps X around a circle of cfg.Radius.
func cylindrical(cell mgl64.Vec3, cfg Config, _ *rand.Rand) mgl64.Vec3 {
	angle := WrapAngle(cell.X(), cfg.Circumference())
	return geom.Euler(0, angle, 0).Rotate(mgl64.Vec3{0, cell.Y(), cfg.Radius})
}

// spherical wraps X into yaw and Y into pitch on a sphere of cfg.Radius.
func spherical(cell mgl64.Vec3, cfg Config, _ *rand.Rand) mgl64.Vec3 {
	circ := cfg.Circumference()
	yaw := WrapAngle(cell.X(), circ)
	pitch := -WrapAngle(cell.Y(), circ)
	return geom.Euler(pitch, yaw, 0).Rotate(mgl64.Vec3{0, 0, cfg.Radius})
}

// scattered discards X and Y for uniform samples in [-radius, radius) and keeps Z.
func scattered(cell mgl64.Vec3, cfg Config, rng *rand.Rand) mgl64.Vec3 {
	r := cfg.Radius
	return mgl64.Vec3{
		-r + rng.Float64()*2*r,
		-r + rng.Float64()*2*r,
		cell.Z(),
	}
}

// WrapAngle converts a distance along a circle of the given circumference
// into degrees.
func WrapAngle(x, circumference float64) float64 {
	return x / circumference * 360
}

// =============================================================================
// Orientation Strategies
// =============================================================================

// orienter computes a node rotation from its projected position and its
// rotation before this recompute.
type orienter func(pos mgl64.Vec3, prev mgl64.Quat) mgl64.Quat

type orientKey struct {
	surface SurfaceType
	orient  OrientType
}

func alignForward(mgl64.Vec3, mgl64.Quat) mgl64.Quat       { return geom.Identity() }
func alignForwardTurned(mgl64.Vec3, mgl64.Quat) mgl64.Quat { return geom.Turned(geom.Identity()) }
func keep(_ mgl64.Vec3, prev mgl64.Quat) mgl64.Quat        { return prev }

func faceHorizontal(pos mgl64.Vec3, _ mgl64.Quat) mgl64.Quat {
	return geom.LookRotation(geom.Horizontal(pos))
}

func faceHorizontalTurned(pos mgl64.Vec3, prev mgl64.Quat) mgl64.Quat {
	return geom.Turned(faceHorizontal(pos, prev))
}

func facePosition(pos mgl64.Vec3, _ mgl64.Quat) mgl64.Quat {
	return geom.LookRotation(pos)
}

func facePositionTurned(pos mgl64.Vec3, prev mgl64.Quat) mgl64.Quat {
	return geom.Turned(facePosition(pos, prev))
}

// orientations is the (surface, orientation) dispatch table. A plane has no
// origin to face, so its origin variants align to the collection forward.
var orientations = map[orientKey]orienter{
	{SurfacePlane, OrientFaceOrigin}:          alignForward,
	{SurfacePlane, OrientFaceForward}:         alignForward,
	{SurfacePlane, OrientFaceOriginReversed}:  alignForwardTurned,
	{SurfacePlane, OrientFaceForwardReversed}: alignForwardTurned,
	{SurfacePlane, OrientNone}:                keep,

	{SurfaceCylinder, OrientFaceOrigin}:          faceHorizontal,
	{SurfaceCylinder, OrientFaceOriginReversed}:  faceHorizontalTurned,
	{SurfaceCylinder, OrientFaceForward}:         alignForward,
	{SurfaceCylinder, OrientFaceForwardReversed}: alignForwardTurned,
	{SurfaceCylinder, OrientNone}:                keep,

	{SurfaceSphere, OrientFaceOrigin}:          facePosition,
	{SurfaceSphere, OrientFaceOriginReversed}:  facePositionTurned,
	{SurfaceSphere, OrientFaceForward}:         alignForward,
	{SurfaceSphere, OrientFaceForwardReversed}: alignForwardTurned,
	{SurfaceSphere, OrientNone}:                keep,

	{SurfaceScatter, OrientFaceOrigin}:          facePosition,
	{SurfaceScatter, OrientFaceOriginReversed}:  facePositionTurned,
	{SurfaceScatter, OrientFaceForward}:         alignForward,
	{SurfaceScatter, OrientFaceForwardReversed}: alignForwardTurned,
	{SurfaceScatter, OrientNone}:                keep,
}

// =============================================================================
// Projection
// =============================================================================

// Project maps each grid cell onto the configured surface and orients the
// node. Scatter nodes also get their packing radius from the item's bounding
// extent. Nodes are returned as a new slice; the input is not modified.
//
// Unknown surfaces, unknown orientations, a non-positive radius on a wrapping
// surface and a cell count that does not match the nodes are errors, detected
// before any node is placed.
func Project(nodes []Node, grid Grid, cfg Config, rng *rand.Rand) ([]Node, error) {
	mapFn, ok := mappings[cfg.Surface]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidSurface, "unknown surface %s", cfg.Surface)
	}
	orient, ok := orientations[orientKey{cfg.Surface, cfg.Orient}]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidOrient, "unknown orientation %s for %s surface", cfg.Orient, cfg.Surface)
	}
	if cfg.Surface.Wraps() {
		if err := errors.ValidateRadius(cfg.Surface.String(), cfg.Radius); err != nil {
			return nil, err
		}
	}
	if len(grid.Cells) != len(nodes) {
		return nil, errors.New(errors.ErrCodeInternal, "grid has %d cells for %d nodes", len(grid.Cells), len(nodes))
	}
	if cfg.Surface == SurfaceScatter && rng == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scatter surface requires a random source")
	}

	out := slices.Clone(nodes)
	for i := range out {
		pos := mapFn(grid.Cells[i], cfg, rng)
		if cfg.Surface == SurfaceScatter {
			out[i].Radius = packingRadius(out[i].Item)
		}
		out[i].Position = pos
		out[i].Rotation = orient(pos, out[i].Rotation)
	}
	return out, nil
}
