package collection

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/objectgrid/pkg/geom"
)

func circles(radius float64, positions ...mgl64.Vec3) []Node {
	nodes := make([]Node, len(positions))
	for i, p := range positions {
		nodes[i] = Node{
			Name:     string(rune('a' + i)),
			Position: p,
			Radius:   radius,
			Rotation: geom.Identity(),
		}
	}
	return nodes
}

func TestPackSinglePass(t *testing.T) {
	shift := (2 - math.Sqrt(0.5)) * 0.5

	tests := []struct {
		name      string
		positions []mgl64.Vec3
		want      []mgl64.Vec3
	}{
		{
			name:      "planar pair",
			positions: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}},
			want:      []mgl64.Vec3{{-shift, 0, 0}, {1 + shift, 0, 0}},
		},
		{
			// Depth is ignored by the overlap test but moves with the push.
			name:      "pair with depth",
			positions: []mgl64.Vec3{{0, 0, 0}, {1, 0, 1}},
			want:      []mgl64.Vec3{{-shift, 0, -shift}, {1 + shift, 0, 1 + shift}},
		},
		{
			name:      "far apart",
			positions: []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}},
			want:      []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pack(circles(1, tt.positions...), 0.5, 1)
			for i, want := range tt.want {
				if !geom.ApproxEqual(got[i].Position, want, 1e-8) {
					t.Errorf("node %d: Position = %v, want %v", i, got[i].Position, want)
				}
			}
		})
	}
}

func TestPackPaddingClamp(t *testing.T) {
	// Planar distance 0.6 with padding 0.5: d2 goes 0.36 -> 0.11 -> 0.
	got := Pack(circles(1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0.6, 0}), 0.5, 1)
	if !geom.ApproxEqual(got[1].Position, mgl64.Vec3{0, 1.2, 0}, 1e-12) {
		t.Errorf("Position = %v, want {0 1.2 0}", got[1].Position)
	}
	if !geom.ApproxEqual(got[0].Position, mgl64.Vec3{0, -0.6, 0}, 1e-12) {
		t.Errorf("Position = %v, want {0 -0.6 0}", got[0].Position)
	}
}

func TestPackCoincident(t *testing.T) {
	got := Pack(circles(1, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 1, 0}), 2, DefaultPackPasses)
	for _, n := range got {
		for _, v := range n.Position {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("Position = %v, want finite", n.Position)
			}
		}
		if n.Position != (mgl64.Vec3{1, 1, 0}) {
			t.Errorf("Position = %v, want unchanged", n.Position)
		}
	}
}

func TestPackOrdersByDistance(t *testing.T) {
	in := circles(0.1, mgl64.Vec3{5, 0, 0}, mgl64.Vec3{0, -3, 0}, mgl64.Vec3{1, 0, 0})
	got := Pack(in, 0, 1)

	if got[0].Name != "c" || got[1].Name != "b" || got[2].Name != "a" {
		t.Errorf("order = %v, want [c b a]", names(got))
	}
	if in[0].Name != "a" {
		t.Error("Pack() reordered its input")
	}
}

func TestPackZeroPasses(t *testing.T) {
	in := circles(1, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 0})
	got := Pack(in, 0.5, 0)
	for i := range in {
		if got[i].Position != in[i].Position {
			t.Errorf("node %d moved with zero passes", i)
		}
	}
}

func TestPackReducesOverlap(t *testing.T) {
	const (
		count  = 24
		radius = 2.0
	)
	for _, seed := range []uint64{1, 7, 42, 1234} {
		rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
		positions := make([]mgl64.Vec3, count)
		for i := range positions {
			positions[i] = mgl64.Vec3{-radius + rng.Float64()*2*radius, -radius + rng.Float64()*2*radius, 0}
		}
		nodes := circles(DefaultNodeRadius, positions...)

		before, pairs := Overlaps(nodes)
		after, _ := Overlaps(Pack(nodes, radius, DefaultPackPasses))

		if pairs != count*(count-1)/2 {
			t.Fatalf("pairs = %d, want %d", pairs, count*(count-1)/2)
		}
		if before == 0 {
			t.Fatalf("seed %d: no initial overlap", seed)
		}
		if after > before {
			t.Errorf("seed %d: overlapping pairs grew from %d to %d", seed, before, after)
		}
	}
}

func TestOverlaps(t *testing.T) {
	nodes := circles(0.5, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.9, 0, 5}, mgl64.Vec3{3, 0, 0})
	overlapping, pairs := Overlaps(nodes)
	if overlapping != 1 || pairs != 3 {
		t.Errorf("Overlaps() = (%d, %d), want (1, 3)", overlapping, pairs)
	}
}
