// Package pkg provides the core libraries for objectgrid collection layouts.
//
// # Overview
//
// Objectgrid arranges a collection of items in collection-local space: on a
// flat grid, wrapped around a cylinder, over a sphere, or as a packed scatter.
// The pkg directory is organized into three areas:
//
//  1. [collection] - Domain logic (sync, grid, projection, packing)
//  2. [scene], [layout] - Input and output formats
//  3. [pipeline], [cache], [observability] - Orchestration and infrastructure
//
// # Architecture
//
// The typical data flow through objectgrid:
//
//	Scene file (TOML/JSON)
//	         ↓
//	    [scene] package (items + [collection] overrides)
//	         ↓
//	    [collection] package (sync → grid → surface → pack)
//	         ↓
//	    [layout] package (placements as JSON)
//
// The [pipeline] package runs all of these with caching and is shared by
// the CLI and the HTTP server.
//
// # Quick Start
//
// Arrange items around a cylinder:
//
//	cfg := collection.DefaultConfig()
//	cfg.Surface = collection.SurfaceCylinder
//
//	c := collection.New(cfg)
//	if err := c.Update(s.Items()); err != nil {
//	    return err
//	}
//	for _, n := range c.Nodes() {
//	    fmt.Println(n.Name, n.Position, n.Forward())
//	}
//
// Or run the whole pipeline from scene bytes:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, _ := runner.Layout(ctx, pipeline.Options{Scene: data})
//	os.WriteFile("shelf.layout.json", res.Data, 0o644)
//
// # Main Packages
//
// [collection] - The layout engine. Synchronizes a node list with the
// current items, fills a grid of cells, maps the grid onto a surface and
// orients every node, then relaxes scatter layouts apart.
//
// [geom] - Vector and quaternion helpers over mathgl.
//
// [scene] - Scene file decoding with stable generated item keys.
//
// [layout] - The serialized arrangement written by the CLI, returned by the
// HTTP API and stored in the cache.
//
// [pipeline] - Parse, configure, arrange and serialize, with results cached
// by scene hash and settings.
//
// [cache] - File, Redis and null cache backends plus key derivation.
//
// [errors] - Coded errors shared by every entry point.
//
// [observability] - Hooks for metrics and tracing of recomputes, pipeline
// runs, cache traffic and HTTP requests.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/collection/...         # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [collection]: https://pkg.go.dev/github.com/matzehuels/objectgrid/pkg/collection
// [geom]: https://pkg.go.dev/github.com/matzehuels/objectgrid/pkg/geom
// [scene]: https://pkg.go.dev/github.com/matzehuels/objectgrid/pkg/scene
// [layout]: https://pkg.go.dev/github.com/matzehuels/objectgrid/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/objectgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/objectgrid/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/objectgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/objectgrid/pkg/observability
package pkg
