package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/spiractl/filter"
	"github.com/s0up4200/spiractl/output"
	"github.com/s0up4200/spiractl/spira"
)

var byStatus bool

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize requirement counts across all projects",
	Long: `Count the requirements of every project concurrently.

With --by-status or a filter the requirements themselves are fetched, so the
totals reflect the filter and can be broken down by status.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&byStatus, "by-status", false, "break the totals down by requirement status")
	summaryCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or preset name")
	summaryCmd.Flags().StringVar(&preset, "preset", "", "use a preset filter from config")
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	match, err := selectedFilter()
	if err != nil {
		return err
	}

	projects, err := spiraClient.Projects(ctx)
	if err != nil {
		return err
	}

	var summaries []output.ProjectSummary
	if !byStatus && match == nil {
		counts, err := spiraClient.RequirementCounts(ctx, projects)
		if err != nil {
			return err
		}
		summaries = summarizeCounts(projects, counts)
	} else {
		byProject, err := spiraClient.RequirementsByProject(ctx, projects)
		if err != nil {
			return err
		}
		summaries = summarizeRequirements(projects, byProject, match, byStatus)
	}

	logger.Debug().Int("projects", len(summaries)).Msg("Summarized requirements")
	return printer.Summary(summaries)
}

func summarizeCounts(projects []spira.Project, counts map[int64]int64) []output.ProjectSummary {
	summaries := make([]output.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, output.ProjectSummary{
			ID:           p.ID(),
			Name:         p.Name(),
			Requirements: counts[p.ID()],
		})
	}
	return summaries
}

func summarizeRequirements(projects []spira.Project, byProject map[int64][]spira.Requirement, match filter.Filter, withStatus bool) []output.ProjectSummary {
	summaries := make([]output.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		requirements := byProject[p.ID()]
		if match != nil {
			requirements = filter.Apply(match, requirements)
		}

		s := output.ProjectSummary{
			ID:           p.ID(),
			Name:         p.Name(),
			Requirements: int64(len(requirements)),
		}
		if withStatus && len(requirements) > 0 {
			s.ByStatus = make(map[string]int)
			for _, r := range requirements {
				s.ByStatus[r.Status().String()]++
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}
