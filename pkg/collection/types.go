package collection

import (
	"fmt"
	"strings"

	"github.com/matzehuels/objectgrid/pkg/errors"
)

// =============================================================================
// SurfaceType
// =============================================================================

// SurfaceType selects the surface the grid is projected onto.
type SurfaceType int

const (
	SurfacePlane SurfaceType = iota
	SurfaceCylinder
	SurfaceSphere
	SurfaceScatter
)

var surfaceNames = []string{"plane", "cylinder", "sphere", "scatter"}

func (s SurfaceType) String() string { return enumName("SurfaceType", int(s), surfaceNames) }

// Valid reports whether s is a known surface.
func (s SurfaceType) Valid() bool { return int(s) >= 0 && int(s) < len(surfaceNames) }

// Wraps reports whether the surface needs a positive radius.
func (s SurfaceType) Wraps() bool { return s != SurfacePlane }

// ParseSurfaceType parses a surface name such as "cylinder".
func ParseSurfaceType(s string) (SurfaceType, error) {
	v, err := parseEnum(s, surfaceNames, "surface", errors.ErrCodeInvalidSurface)
	return SurfaceType(v), err
}

func (s SurfaceType) MarshalText() ([]byte, error) { return marshalEnum(s) }

func (s *SurfaceType) UnmarshalText(b []byte) error {
	v, err := ParseSurfaceType(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// =============================================================================
// SortType
// =============================================================================

// SortType selects how tracked nodes are ordered before layout.
type SortType int

const (
	SortNone SortType = iota
	SortTransform
	SortTransformReversed
	SortAlphabetical
	SortAlphabeticalReversed
)

var sortNames = []string{"none", "transform", "transform-reversed", "alphabetical", "alphabetical-reversed"}

func (s SortType) String() string { return enumName("SortType", int(s), sortNames) }

// Valid reports whether s is a known sort type.
func (s SortType) Valid() bool { return int(s) >= 0 && int(s) < len(sortNames) }

// ParseSortType parses a sort name such as "alphabetical-reversed".
func ParseSortType(s string) (SortType, error) {
	v, err := parseEnum(s, sortNames, "sort", errors.ErrCodeInvalidSort)
	return SortType(v), err
}

func (s SortType) MarshalText() ([]byte, error) { return marshalEnum(s) }

func (s *SortType) UnmarshalText(b []byte) error {
	v, err := ParseSortType(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// =============================================================================
// OrientType
// =============================================================================

// OrientType selects how each node is rotated after projection.
type OrientType int

const (
	OrientFaceOrigin OrientType = iota
	OrientFaceOriginReversed
	OrientFaceForward
	OrientFaceForwardReversed
	OrientNone
)

var orientNames = []string{"face-origin", "face-origin-reversed", "face-forward", "face-forward-reversed", "none"}

func (o OrientType) String() string { return enumName("OrientType", int(o), orientNames) }

// Valid reports whether o is a known orientation.
func (o OrientType) Valid() bool { return int(o) >= 0 && int(o) < len(orientNames) }

// ParseOrientType parses an orientation name such as "face-origin".
func ParseOrientType(s string) (OrientType, error) {
	v, err := parseEnum(s, orientNames, "orient", errors.ErrCodeInvalidOrient)
	return OrientType(v), err
}

func (o OrientType) MarshalText() ([]byte, error) { return marshalEnum(o) }

func (o *OrientType) UnmarshalText(b []byte) error {
	v, err := ParseOrientType(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// =============================================================================
// LayoutType
// =============================================================================

// LayoutType selects the cell iteration order of the grid.
type LayoutType int

const (
	LayoutColumnThenRow LayoutType = iota
	LayoutRowThenColumn
)

var layoutNames = []string{"column-then-row", "row-then-column"}

func (l LayoutType) String() string { return enumName("LayoutType", int(l), layoutNames) }

// Valid reports whether l is a known layout type.
func (l LayoutType) Valid() bool { return int(l) >= 0 && int(l) < len(layoutNames) }

// ParseLayoutType parses a layout name such as "row-then-column".
func ParseLayoutType(s string) (LayoutType, error) {
	v, err := parseEnum(s, layoutNames, "layout", errors.ErrCodeInvalidLayout)
	return LayoutType(v), err
}

func (l LayoutType) MarshalText() ([]byte, error) { return marshalEnum(l) }

func (l *LayoutType) UnmarshalText(b []byte) error {
	v, err := ParseLayoutType(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

type enum interface {
	fmt.Stringer
	Valid() bool
}

func enumName(kind string, v int, names []string) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, v)
	}
	return names[v]
}

func marshalEnum(e enum) ([]byte, error) {
	if !e.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cannot marshal %s", e)
	}
	return []byte(e.String()), nil
}

// parseEnum matches s against names ignoring case and word separators,
// so "FaceOrigin", "face_origin" and "face-origin" are equivalent.
func parseEnum(s string, names []string, kind string, code errors.Code) (int, error) {
	want := foldName(s)
	for i, name := range names {
		if foldName(name) == want {
			return i, nil
		}
	}
	return 0, errors.New(code, "unknown %s %q (valid: %s)", kind, s, strings.Join(names, ", "))
}

func foldName(s string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
