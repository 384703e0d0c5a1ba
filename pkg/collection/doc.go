// Package collection arranges a set of caller-owned items on a plane,
// cylinder, sphere, or random scatter.
//
// # Overview
//
// A recompute runs four stages over the whole tracked node list:
//
//  1. [Sync] reconciles the tracked nodes with the caller's current items
//     and orders them per [SortType].
//  2. [BuildGrid] assigns each node a cell of a rectangular grid centered on
//     the origin, walking cells per [LayoutType].
//  3. [Project] maps every cell onto the configured [SurfaceType] and picks a
//     rotation per [OrientType].
//  4. [Pack] pushes overlapping scatter nodes apart. It runs only for
//     [SurfaceScatter].
//
// There is no incremental update. Each stage returns a new slice, and the
// [Collection] publishes the result only after every stage has succeeded.
//
// # Basic Usage
//
//	c := collection.New(collection.DefaultConfig(), collection.WithSeed(7))
//	cancel := c.Subscribe(collection.ObserverFunc(func(e collection.Event) {
//	    fmt.Println(len(e.Nodes), e.Width, e.Height)
//	}))
//	defer cancel()
//
//	if err := c.Update(items); err != nil {
//	    return err
//	}
//
// Items implement [Item]. Implementing [Bounded] sizes scatter nodes by their
// bounding extent, and [Offsetter] supplies an initial per-node offset.
//
// # Coordinates
//
// Positions are in collection-local space: +X right, +Y up, +Z forward, with
// rotations composed as in a left-handed engine (roll, then pitch, then yaw).
// The plane surface lies in the XY plane facing +Z. Cylinder and sphere wrap
// grid X (and Y for the sphere) by arc length around a circle of
// [Config.Radius].
//
// # Scatter Packing
//
// Scatter nodes are placed uniformly in a square of half-size Radius and then
// relaxed for [DefaultPackPasses] passes. Nodes are circles in the XY plane
// using the radius from [Bounded], or [DefaultNodeRadius]. The config radius
// doubles as padding in the overlap test. Packing does not guarantee that no
// overlap remains; [Overlaps] reports what is left. Rotations are computed
// from the scatter position before packing and are not updated afterwards.
//
// # Concurrency
//
// A [Collection] holds no locks. Calls on one collection must be serialized
// by the caller; separate collections are independent.
package collection
