package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archlens/pkg/coverage"
	"github.com/matzehuels/archlens/pkg/graph"
)

// newCoverageCmd creates the coverage command.
func newCoverageCmd() *cobra.Command {
	var (
		expected int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "coverage <model.json>",
		Short: "Report goal coverage for a model",
		Long: `Report how well goals in the model are backed by requirements and constraints.

A goal with no linked requirements is uncovered. Coverage percentage counts
requirement and constraint links against the expected number per goal.

Examples:
  archlens coverage model.json
  archlens coverage model.json --expected-links 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoverage(cmd, args[0], expected, asJSON)
		},
	}

	cmd.Flags().IntVar(&expected, "expected-links", coverage.DefaultExpectedLinks, "requirement/constraint links per goal for full coverage")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")

	return cmd
}

func runCoverage(cmd *cobra.Command, input string, expected int, asJSON bool) error {
	logger := loggerFromContext(cmd.Context())

	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load model %s: %w", input, err)
	}

	coverages := coverage.NewAnalyzer(expected).AnalyzeGraph(g)
	summary := coverage.Summarize(coverages)

	if asJSON {
		out := map[string]any{"goals": coverages, "summary": summary}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	ids := make([]string, 0, len(coverages))
	for id := range coverages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := coverages[id]
		label := id
		if n := g.Node(id); n != nil {
			label = n.DisplayLabel()
		}
		fmt.Printf("%-10s %-40s %5.1f%%  (%d requirements, %d constraints)\n",
			c.Status, label, c.CoveragePercentage, c.RequirementCount, c.ConstraintCount)
	}

	fmt.Printf("\n%d goals, %.1f%% average coverage (%d complete, %d partial, %d uncovered)\n",
		summary.TotalGoals, summary.OverallCoverage,
		summary.CompleteCount, summary.PartialCount, summary.NoneCount)

	logger.Debugf("Analyzed coverage with expected links = %d", expected)
	return nil
}
