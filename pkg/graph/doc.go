// Package graph provides the typed graph model for architecture diagrams.
//
// This package defines the canonical in-memory snapshot of an architecture
// model: nodes (elements across the motivation, business, C4, and data-model
// layers) and edges (typed, weighted relationships between them), keyed by ID.
//
// # Architecture
//
// The package sits at the base of the transformation pipeline:
//
//   - [TypedGraph]: canonical snapshot, built once per load/update cycle
//   - [Node], [Edge]: structural types shared across the pipeline
//   - [Document]: node-link JSON serialization format
//
// A snapshot is immutable by convention. Filtering operations (semantic zoom,
// user filters) return new graph views sharing node and edge pointers; the
// original is never mutated in place. Edges whose endpoints are removed by a
// filter are dropped silently - that is expected, not an error.
//
// # Element and Relationship Types
//
// [ElementType] and [RelationType] are closed enumerations. Visual dispatch
// over element types (dimensions, colors, icons, layer attribution) goes
// through a data-driven style registry whose completeness is verified at
// package initialization, not through per-call switch statements.
//
// # Metrics
//
// Degree centrality, in-degree, and out-degree are computed wholesale by
// [TypedGraph.ComputeMetrics] when a snapshot is built. Filtered views keep
// the metrics of the snapshot they were derived from.
//
// # Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "goal-1", "type": "goal"}],
//	  "edges": [{"id": "r1", "source_id": "goal-1", "target_id": "req-1", "type": "realizes"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadFile("model.json")   // File → TypedGraph
//	graph.WriteFile(g, "out.json")         // TypedGraph → File
//	data, _ := graph.Marshal(g)            // TypedGraph → []byte
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
