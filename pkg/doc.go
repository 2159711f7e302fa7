// Package pkg provides the libraries behind erwd, a responsive layout engine
// for widget trees.
//
// # Overview
//
// erwd reads a tree of widgets (leaves with fixed width ranges and heights,
// containers holding other widgets) and computes, for every container, the
// layout it uses at every viewport width. The result is emitted as plain
// HTML and CSS grid media queries. The pkg directory is organized into:
//
//  1. [core] - Layout computation (ranges, layout graphs, width allocation,
//     arrangements, breakpoint sampling)
//  2. [render] - Artifact generation (CSS, HTML, Graphviz diagrams)
//  3. [pipeline] - Orchestration (load → compute → emit) shared by the CLI
//     and the HTTP server
//  4. [cache] - Cache backends (file, Redis, MongoDB) for computed artifacts
//  5. [io], [config], [errors], [observability], [buildinfo] - Supporting
//     infrastructure
//
// # Architecture
//
// The typical data flow through erwd:
//
//	widgets.json + src/*.html
//	         ↓
//	    [io] package (parse definitions and size comments)
//	         ↓
//	    [core/engine] package (finalize containers bottom-up)
//	         ↓
//	    [render] packages (CSS grid + HTML per page)
//	         ↓
//	    build/<page>.html, build/<page>.css
//
// # Quick Start
//
// Lay out a project and emit its pages:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{File: "widgets.json"})
//	for name, data := range result.Artifacts {
//	    _ = io.WriteArtifact("build", name, data)
//	}
//
// # Main Packages
//
// [core/ranges] - Sorted unions of closed integer intervals with the
// pointwise sum, max and min used to fold child widths.
//
// [core/layout] - Layout graphs: the right-of and below relations over a
// container's children, with their accepted widths, width assignments and
// heights.
//
// [core/width] - Width allocators. Left-first packs children greedily,
// flex-dag distributes extra width by grow factors.
//
// [core/arrange] - Arrangers that pick a layout graph for an available
// width (min-height, left-justified, row).
//
// [core/breakpoints] - Sampling a function of width into breakpoint
// intervals, concurrently.
//
// [core/engine] - Finalizing containers into [layout.Responsive] values.
//
// [core/dag] - The small directed graph behind both layout relations, and
// [core/dag/transform] for transitive reduction.
//
// [core/grid] - Mapping layout relations to CSS grid cells.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/core/...         # Layout engine only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core
// [core/ranges]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/ranges
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/layout
// [layout.Responsive]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/layout#Responsive
// [core/width]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/width
// [core/arrange]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/arrange
// [core/breakpoints]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/breakpoints
// [core/engine]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/engine
// [core/dag]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/dag
// [core/dag/transform]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/dag/transform
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/core/grid
// [render]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/erwd/pkg/buildinfo
package pkg
