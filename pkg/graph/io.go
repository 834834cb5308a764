package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Document - Graph Serialization Format
// =============================================================================

// Document is the canonical serialization format for architecture graphs.
// Used for file import/export, API responses, and cache payloads.
//
// The format is designed for round-trip fidelity: import → transform views →
// export → re-import produces an identical snapshot.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Marshal serializes a graph to pretty-printed JSON bytes.
// Nodes and edges are sorted by ID for deterministic output.
func Marshal(g *TypedGraph) ([]byte, error) {
	doc := Document{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, *n)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, *e)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal deserializes JSON bytes into a graph and computes metrics.
func Unmarshal(data []byte) (*TypedGraph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}
	g, err := Build(doc.Nodes, doc.Edges)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return g, nil
}

// Read reads a JSON graph document from r.
func Read(r io.Reader) (*TypedGraph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// ReadFile reads a JSON graph document from a file.
func ReadFile(path string) (*TypedGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// WriteFile writes a graph to a JSON file.
func WriteFile(g *TypedGraph, path string) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
