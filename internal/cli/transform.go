package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archlens/pkg/coverage"
	"github.com/matzehuels/archlens/pkg/graph"
	"github.com/matzehuels/archlens/pkg/layout"
	"github.com/matzehuels/archlens/pkg/transform"
)

// Output formats for the transform command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
)

// transformOpts holds the command-line flags for the transform command.
type transformOpts struct {
	algorithm   string  // layout algorithm name
	zoom        float64 // semantic zoom level
	types       string  // comma-separated element type filter
	relations   string  // comma-separated relationship type filter
	center      string  // radial center node ID
	noBundling  bool    // disable edge bundling
	threshold   int     // bundling threshold override
	coverage    bool    // annotate goal nodes with coverage indicators
	format      string  // output format: json or dot
	output      string  // output file path (stdout if empty)
	positions   string  // JSON file with pinned positions for manual layout
	highlight   string  // comma-separated node IDs to highlight (focus+context)
}

// newTransformCmd creates the transform command.
func newTransformCmd(configPath *string) *cobra.Command {
	opts := transformOpts{zoom: -1, format: formatJSON}

	cmd := &cobra.Command{
		Use:   "transform <model.json>",
		Short: "Transform an architecture model into a positioned scene",
		Long: `Transform an architecture model into a positioned, styled scene.

The transform applies semantic zoom filtering, element and relationship
filters, a layout algorithm, detail resolution, and edge bundling, then
writes the resulting scene as JSON (or Graphviz DOT for inspection).

Examples:
  archlens transform model.json                        # Scene JSON to stdout
  archlens transform model.json --zoom 0.4             # Strategic overview
  archlens transform model.json --algorithm radial --center stakeholder-ceo
  archlens transform model.json --types goal,requirement --coverage
  archlens transform model.json --format dot -o scene.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			applyTransformDefaults(&opts, cfg)
			return runTransform(cmd, args[0], opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "layout algorithm: force (default), hierarchical, radial, manual")
	cmd.Flags().Float64VarP(&opts.zoom, "zoom", "z", opts.zoom, "semantic zoom level (default 1.0)")
	cmd.Flags().StringVarP(&opts.types, "types", "t", "", "element types to keep (comma-separated)")
	cmd.Flags().StringVarP(&opts.relations, "relations", "r", "", "relationship types to keep (comma-separated)")
	cmd.Flags().StringVar(&opts.center, "center", "", "center node ID for radial layout")
	cmd.Flags().BoolVar(&opts.noBundling, "no-bundling", false, "disable edge bundling")
	cmd.Flags().IntVar(&opts.threshold, "bundle-threshold", 0, "minimum parallel edges to bundle (0 = automatic)")
	cmd.Flags().BoolVar(&opts.coverage, "coverage", false, "annotate goal nodes with coverage indicators")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json (default), dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.positions, "positions", "", "JSON file of pinned positions for manual layout")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "node IDs to keep at full opacity (comma-separated, dims the rest)")

	return cmd
}

// applyTransformDefaults fills unset flags from config values.
func applyTransformDefaults(opts *transformOpts, cfg Config) {
	if opts.algorithm == "" {
		opts.algorithm = cfg.Transform.Algorithm
	}
	if opts.zoom < 0 {
		opts.zoom = cfg.Transform.Zoom
	}
	if !opts.noBundling && !cfg.Transform.Bundling {
		opts.noBundling = true
	}
}

// runTransform loads the model, runs the transform pipeline, and writes the scene.
func runTransform(cmd *cobra.Command, input string, opts transformOpts, cfg Config) error {
	logger := loggerFromContext(cmd.Context())

	if opts.format != formatJSON && opts.format != formatDOT {
		return fmt.Errorf("unknown format %q (want json or dot)", opts.format)
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load model %s: %w", input, err)
	}

	tOpts, err := buildOptions(opts, cfg, g)
	if err != nil {
		return err
	}
	tOpts.Logger = logger

	prog := newProgress(logger)
	tr := transform.New(transform.WithLogger(logger))
	scene, err := tr.Transform(g, tOpts)
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	prog.done(fmt.Sprintf("Transformed %d nodes, %d edges", len(scene.Nodes), len(scene.Edges)))

	var out []byte
	switch opts.format {
	case formatDOT:
		out = []byte(transform.ToDOT(scene))
	default:
		out, err = json.MarshalIndent(scene, "", "  ")
		if err != nil {
			return fmt.Errorf("encode scene: %w", err)
		}
		out = append(out, '\n')
	}

	if opts.output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	logger.Infof("Wrote %s", opts.output)
	return nil
}

// buildOptions converts CLI flags into transform options.
func buildOptions(opts transformOpts, cfg Config, g *graph.TypedGraph) (transform.Options, error) {
	tOpts := transform.Options{
		Algorithm:       layout.Kind(opts.algorithm),
		ZoomLevel:       opts.zoom,
		CenterNodeID:    opts.center,
		DisableBundling: opts.noBundling,
		BundleThreshold: opts.threshold,
	}

	for _, s := range splitList(opts.types) {
		tOpts.ElementTypes = append(tOpts.ElementTypes, graph.ElementType(s))
	}
	for _, s := range splitList(opts.relations) {
		tOpts.RelationTypes = append(tOpts.RelationTypes, graph.RelationType(s))
	}

	if ids := splitList(opts.highlight); len(ids) > 0 {
		tOpts.FocusContext = true
		tOpts.Highlight.NodeIDs = make(map[string]bool, len(ids))
		for _, id := range ids {
			tOpts.Highlight.NodeIDs[id] = true
		}
	}

	if opts.positions != "" {
		positions, err := readPositions(opts.positions)
		if err != nil {
			return tOpts, err
		}
		tOpts.ExistingPositions = positions
	}

	if opts.coverage {
		expected := cfg.Transform.ExpectedLinks
		if expected <= 0 {
			expected = coverage.DefaultExpectedLinks
		}
		tOpts.GoalCoverages = coverage.NewAnalyzer(expected).AnalyzeGraph(g)
	}

	return tOpts, nil
}

// readPositions loads a map of node ID to center position from a JSON file.
func readPositions(path string) (map[string]layout.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read positions %s: %w", path, err)
	}
	var positions map[string]layout.Point
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("parse positions %s: %w", path, err)
	}
	return positions, nil
}

// splitList parses a comma-separated flag value into trimmed non-empty parts.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
