package collection

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/objectgrid/pkg/geom"
)

// DefaultPackPasses is the number of relaxation passes a scatter recompute runs.
const DefaultPackPasses = 100

// Pack separates overlapping scatter nodes, treating each as a circle of its
// Radius in the XY plane with padding as extra separation. It always runs
// exactly passes passes. Each pass orders the nodes by distance from the
// origin and pushes every overlapping pair apart along their 3D difference.
//
// Nodes are returned in the order of the last pass. The input is not modified.
func Pack(nodes []Node, padding float64, passes int) []Node {
	out := slices.Clone(nodes)
	for range passes {
		packPass(out, padding)
	}
	return out
}

func packPass(nodes []Node, padding float64) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		return cmp.Compare(geom.SqrLen(a.Position), geom.SqrLen(b.Position))
	})

	padSq := padding * padding
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			delta := nodes[j].Position.Sub(nodes[i].Position)
			planar := geom.Planar(delta)
			cr := nodes[i].Radius + nodes[j].Radius

			d2 := planar.Dot(planar) - padSq
			// The padding is taken off a second time, capped at d2 itself.
			d2 -= math.Min(d2, padSq)
			if d2 >= cr*cr {
				continue
			}
			shift := delta.Mul((cr - math.Sqrt(d2)) * 0.5)
			nodes[j].Position = nodes[j].Position.Add(shift)
			nodes[i].Position = nodes[i].Position.Sub(shift)
		}
	}
}

// Overlaps counts the node pairs whose planar footprints intersect, ignoring
// padding, along with the total number of pairs.
func Overlaps(nodes []Node) (overlapping, pairs int) {
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			pairs++
			d := geom.Planar(nodes[j].Position.Sub(nodes[i].Position))
			cr := nodes[i].Radius + nodes[j].Radius
			if d.Dot(d) < cr*cr {
				overlapping++
			}
		}
	}
	return overlapping, pairs
}
