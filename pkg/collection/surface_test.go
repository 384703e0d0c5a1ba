package collection

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/objectgrid/pkg/errors"
	"github.com/matzehuels/objectgrid/pkg/geom"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// projectCells projects one plain node per cell.
func projectCells(t *testing.T, cfg Config, cells ...mgl64.Vec3) []Node {
	t.Helper()
	keys := make([]string, len(cells))
	for i := range cells {
		keys[i] = string(rune('a' + i))
	}
	nodes := Sync(nil, items(keys...), cfg)
	out, err := Project(nodes, Grid{Cells: cells}, cfg, testRand())
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	return out
}

func surfaceConfig(s SurfaceType, o OrientType) Config {
	cfg := DefaultConfig()
	cfg.Surface = s
	cfg.Orient = o
	return cfg
}

func TestWrapAngle(t *testing.T) {
	circ := 2 * math.Pi * 2
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{circ / 4, 90},
		{-circ / 2, -180},
		{circ, 360},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.x, circ); math.Abs(got-tt.want) > tol {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestProjectPlane(t *testing.T) {
	cells := []mgl64.Vec3{{-0.25, 0.5, 0}, {1, -2, 0.5}}

	tests := []struct {
		orient OrientType
		want   mgl64.Quat
	}{
		{OrientFaceOrigin, geom.Identity()},
		{OrientFaceForward, geom.Identity()},
		{OrientFaceOriginReversed, geom.Yaw(180)},
		{OrientFaceForwardReversed, geom.Yaw(180)},
	}

	for _, tt := range tests {
		t.Run(tt.orient.String(), func(t *testing.T) {
			got := projectCells(t, surfaceConfig(SurfacePlane, tt.orient), cells...)
			for i, n := range got {
				if n.Position != cells[i] {
					t.Errorf("Position = %v, want cell %v", n.Position, cells[i])
				}
				if !geom.SameRotation(n.Rotation, tt.want, tol) {
					t.Errorf("Rotation = %v, want %v", n.Rotation, tt.want)
				}
			}
		})
	}
}

func TestProjectOrientNoneKeepsRotation(t *testing.T) {
	for _, s := range []SurfaceType{SurfacePlane, SurfaceCylinder, SurfaceSphere, SurfaceScatter} {
		t.Run(s.String(), func(t *testing.T) {
			cfg := surfaceConfig(s, OrientNone)
			nodes := Sync(nil, items("a"), cfg)
			prev := geom.Euler(10, 20, 30)
			nodes[0].Rotation = prev

			got, err := Project(nodes, Grid{Cells: []mgl64.Vec3{{0.5, 0.5, 0}}}, cfg, testRand())
			if err != nil {
				t.Fatalf("Project() error = %v", err)
			}
			if got[0].Rotation != prev {
				t.Errorf("Rotation = %v, want unchanged %v", got[0].Rotation, prev)
			}
		})
	}
}

func TestProjectCylinder(t *testing.T) {
	cfg := surfaceConfig(SurfaceCylinder, OrientFaceOrigin)
	circ := cfg.Circumference()

	tests := []struct {
		name string
		cell mgl64.Vec3
		want mgl64.Vec3
	}{
		{"front", mgl64.Vec3{0, 0.3, 0}, mgl64.Vec3{0, 0.3, 2}},
		{"quarter", mgl64.Vec3{circ / 4, -1, 0}, mgl64.Vec3{2, -1, 0}},
		{"half", mgl64.Vec3{circ / 2, 0, 0}, mgl64.Vec3{0, 0, -2}},
		{"negative quarter", mgl64.Vec3{-circ / 4, 0, 0}, mgl64.Vec3{-2, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectCells(t, cfg, tt.cell)[0]
			if !geom.ApproxEqual(got.Position, tt.want, tol) {
				t.Errorf("Position = %v, want %v", got.Position, tt.want)
			}
			forward := geom.Horizontal(tt.want).Normalize()
			if !geom.ApproxEqual(got.Forward(), forward, tol) {
				t.Errorf("Forward() = %v, want %v", got.Forward(), forward)
			}
		})
	}
}

func TestProjectCylinderWraps(t *testing.T) {
	cfg := surfaceConfig(SurfaceCylinder, OrientFaceOrigin)
	circ := cfg.Circumference()

	for _, x := range []float64{0, 0.7, -1.3, 3} {
		got := projectCells(t, cfg, mgl64.Vec3{x, 0.2, 0}, mgl64.Vec3{x + circ, 0.2, 0})
		if !geom.ApproxEqual(got[0].Position, got[1].Position, 1e-9) {
			t.Errorf("x=%v: %v and %v should coincide", x, got[0].Position, got[1].Position)
		}
		a := math.Remainder(WrapAngle(x+circ, circ)-WrapAngle(x, circ), 360)
		if math.Abs(a) > tol {
			t.Errorf("x=%v: wrap angles differ by %v mod 360", x, a)
		}
	}
}

func TestProjectCylinderOrientations(t *testing.T) {
	cell := mgl64.Vec3{math.Pi, 0.5, 0} // a quarter turn on radius 2
	outward := mgl64.Vec3{1, 0, 0}

	tests := []struct {
		orient OrientType
		want   mgl64.Vec3
	}{
		{OrientFaceOrigin, outward},
		{OrientFaceOriginReversed, outward.Mul(-1)},
		{OrientFaceForward, geom.Forward},
		{OrientFaceForwardReversed, geom.Forward.Mul(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.orient.String(), func(t *testing.T) {
			got := projectCells(t, surfaceConfig(SurfaceCylinder, tt.orient), cell)[0]
			if !geom.ApproxEqual(got.Forward(), tt.want, tol) {
				t.Errorf("Forward() = %v, want %v", got.Forward(), tt.want)
			}
			if up := got.Rotation.Rotate(geom.Up); !geom.ApproxEqual(up, geom.Up, tol) {
				t.Errorf("up axis = %v, want upright", up)
			}
		})
	}
}

func TestProjectSphere(t *testing.T) {
	cfg := surfaceConfig(SurfaceSphere, OrientFaceOrigin)
	circ := cfg.Circumference()

	tests := []struct {
		name string
		cell mgl64.Vec3
		want mgl64.Vec3
	}{
		{"front", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 2}},
		{"right", mgl64.Vec3{circ / 4, 0, 0}, mgl64.Vec3{2, 0, 0}},
		{"top", mgl64.Vec3{0, circ / 4, 0}, mgl64.Vec3{0, 2, 0}},
		{"bottom", mgl64.Vec3{0, -circ / 4, 0}, mgl64.Vec3{0, -2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectCells(t, cfg, tt.cell)[0]
			if !geom.ApproxEqual(got.Position, tt.want, tol) {
				t.Errorf("Position = %v, want %v", got.Position, tt.want)
			}
		})
	}
}

func TestProjectSphereOrientations(t *testing.T) {
	cell := mgl64.Vec3{0.8, 1.1, 0}

	for _, o := range []OrientType{OrientFaceOrigin, OrientFaceOriginReversed} {
		t.Run(o.String(), func(t *testing.T) {
			got := projectCells(t, surfaceConfig(SurfaceSphere, o), cell)[0]
			if r := got.Position.Len(); math.Abs(r-2) > tol {
				t.Fatalf("|Position| = %v, want radius 2", r)
			}
			want := got.Position.Normalize()
			if o == OrientFaceOriginReversed {
				want = want.Mul(-1)
			}
			if !geom.ApproxEqual(got.Forward(), want, 1e-9) {
				t.Errorf("Forward() = %v, want %v", got.Forward(), want)
			}
		})
	}
}

func TestProjectScatter(t *testing.T) {
	cfg := surfaceConfig(SurfaceScatter, OrientFaceOrigin)
	cfg.Radius = 1.5

	sized := item("sized")
	sized.extent = mgl64.Vec3{0.5, 3, 1}
	sized.hasExtent = true
	sized.offset = mgl64.Vec3{0, 0, 0.75}
	unsized := item("unsized")
	nodes := Sync(nil, []Item{sized, unsized, plainItem{key: "plain"}}, cfg)

	got, err := Project(nodes, BuildGrid(nodes, cfg), cfg, testRand())
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	wantRadius := []float64{1.5, DefaultNodeRadius, DefaultNodeRadius}
	wantZ := []float64{0.75, 0, 0}
	for i, n := range got {
		if n.Radius != wantRadius[i] {
			t.Errorf("%s: Radius = %v, want %v", n.Name, n.Radius, wantRadius[i])
		}
		if n.Position.Z() != wantZ[i] {
			t.Errorf("%s: Z = %v, want %v", n.Name, n.Position.Z(), wantZ[i])
		}
		for _, v := range []float64{n.Position.X(), n.Position.Y()} {
			if v < -cfg.Radius || v >= cfg.Radius {
				t.Errorf("%s: coordinate %v outside [-%v, %v)", n.Name, v, cfg.Radius, cfg.Radius)
			}
		}
		if want := n.Position.Normalize(); !geom.ApproxEqual(n.Forward(), want, 1e-9) {
			t.Errorf("%s: Forward() = %v, want toward %v", n.Name, n.Forward(), want)
		}
	}
}

func TestProjectScatterSeeded(t *testing.T) {
	cfg := surfaceConfig(SurfaceScatter, OrientFaceForward)
	nodes := Sync(nil, items("a", "b", "c"), cfg)
	grid := BuildGrid(nodes, cfg)

	first, _ := Project(nodes, grid, cfg, testRand())
	second, _ := Project(nodes, grid, cfg, testRand())
	for i := range first {
		if first[i].Position != second[i].Position {
			t.Errorf("node %d: %v != %v with the same seed", i, first[i].Position, second[i].Position)
		}
	}
}

func TestProjectErrors(t *testing.T) {
	nodes := Sync(nil, items("a", "b"), DefaultConfig())
	cells := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}

	tests := []struct {
		name  string
		cfg   func(*Config)
		cells []mgl64.Vec3
		rng   *rand.Rand
		want  errors.Code
	}{
		{
			name:  "unknown orientation",
			cfg:   func(c *Config) { c.Orient = OrientType(42) },
			cells: cells,
			rng:   testRand(),
			want:  errors.ErrCodeInvalidOrient,
		},
		{
			name:  "unknown surface",
			cfg:   func(c *Config) { c.Surface = SurfaceType(-1) },
			cells: cells,
			rng:   testRand(),
			want:  errors.ErrCodeInvalidSurface,
		},
		{
			name:  "zero radius cylinder",
			cfg:   func(c *Config) { c.Surface = SurfaceCylinder; c.Radius = 0 },
			cells: cells,
			rng:   testRand(),
			want:  errors.ErrCodeInvalidConfig,
		},
		{
			name:  "negative radius scatter",
			cfg:   func(c *Config) { c.Surface = SurfaceScatter; c.Radius = -1 },
			cells: cells,
			rng:   testRand(),
			want:  errors.ErrCodeInvalidConfig,
		},
		{
			name:  "cell count mismatch",
			cfg:   func(c *Config) {},
			cells: cells[:1],
			rng:   testRand(),
			want:  errors.ErrCodeInternal,
		},
		{
			name:  "scatter without random source",
			cfg:   func(c *Config) { c.Surface = SurfaceScatter },
			cells: cells,
			want:  errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)
			got, err := Project(nodes, Grid{Cells: tt.cells}, cfg, tt.rng)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Project() error = %v, want code %s", err, tt.want)
			}
			if got != nil {
				t.Errorf("Project() returned %d nodes on error", len(got))
			}
		})
	}
}

func TestProjectPlaneIgnoresRadius(t *testing.T) {
	cfg := surfaceConfig(SurfacePlane, OrientFaceOrigin)
	cfg.Radius = 0
	got := projectCells(t, cfg, mgl64.Vec3{1, 1, 0})
	if got[0].Position != (mgl64.Vec3{1, 1, 0}) {
		t.Errorf("Position = %v, want {1 1 0}", got[0].Position)
	}
}

func TestProjectDoesNotMutate(t *testing.T) {
	cfg := surfaceConfig(SurfaceCylinder, OrientFaceOrigin)
	nodes := Sync(nil, items("a"), cfg)
	before := nodes[0]

	if _, err := Project(nodes, Grid{Cells: []mgl64.Vec3{{1, 0, 0}}}, cfg, testRand()); err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if nodes[0].Position != before.Position || nodes[0].Rotation != before.Rotation {
		t.Error("Project() modified its input")
	}
}
