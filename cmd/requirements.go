package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/spiractl/filter"
	"github.com/s0up4200/spiractl/spira"
)

var (
	projectRef string
	filterExpr string
	preset     string
)

// errRequirementNotFound is returned when a requirement reference matches nothing
var errRequirementNotFound = errors.New("requirement not found")

// requirementsCmd groups the requirement commands
var requirementsCmd = &cobra.Command{
	Use:     "requirements",
	Aliases: []string{"requirement", "rq"},
	Short:   "List, count and inspect the requirements of a project",
}

var requirementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the requirements of a project matching the filter criteria",
	Long: `List the requirements of a project. Narrow the list with --filter, which
takes an expression or a preset name, or with --preset.

Examples:
  spiractl requirements list -p 1 --filter 'hasImportance("high") and daysSince(LastUpdateDate) > 30'
  spiractl requirements list -p Library --filter 'status!:"completed" AND owner:12'
  spiractl requirements list -p 1 --preset stale`,
	Args: cobra.NoArgs,
	RunE: runRequirementsList,
}

var requirementsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of requirements in a project",
	Args:  cobra.NoArgs,
	RunE:  runRequirementsCount,
}

var requirementsGetCmd = &cobra.Command{
	Use:   "get <id|name>",
	Short: "Show a single requirement by id or exact name",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequirementsGet,
}

func init() {
	for _, c := range []*cobra.Command{requirementsListCmd, requirementsCountCmd, requirementsGetCmd} {
		c.Flags().StringVarP(&projectRef, "project", "p", "", "project id or exact name")
		_ = c.MarkFlagRequired("project")
	}
	requirementsListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or preset name")
	requirementsListCmd.Flags().StringVar(&preset, "preset", "", "use a preset filter from config")

	requirementsCmd.AddCommand(requirementsListCmd)
	requirementsCmd.AddCommand(requirementsCountCmd)
	requirementsCmd.AddCommand(requirementsGetCmd)
}

func runRequirementsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	match, err := selectedFilter()
	if err != nil {
		return err
	}

	project, err := resolveProject(ctx, projectRef)
	if err != nil {
		return err
	}

	requirements, err := project.Requirements(ctx)
	if err != nil {
		return err
	}
	if match != nil {
		total := len(requirements)
		requirements = filter.Apply(match, requirements)
		logger.Debug().
			Str("filter", match.Expression()).
			Int("total", total).
			Int("matched", len(requirements)).
			Msg("Filtered requirements")
	}

	return printer.Requirements(project.Name(), requirements)
}

func runRequirementsCount(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	project, err := resolveProject(ctx, projectRef)
	if err != nil {
		return err
	}

	count, err := project.RequirementsCount(ctx)
	if err != nil {
		return err
	}
	return printer.Count(project.ID(), count)
}

func runRequirementsGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	project, err := resolveProject(ctx, projectRef)
	if err != nil {
		return err
	}

	ref := strings.TrimSpace(args[0])
	var requirement *spira.Requirement
	if id, convErr := strconv.ParseInt(strings.TrimPrefix(strings.ToUpper(ref), "RQ:"), 10, 64); convErr == nil {
		requirement, err = project.RequirementByID(ctx, id)
	} else {
		requirement, err = project.RequirementByName(ctx, ref)
	}
	if err != nil {
		return err
	}
	if requirement == nil {
		return fmt.Errorf("%w: %s in project %s", errRequirementNotFound, ref, project.Name())
	}

	return printer.Requirement(*requirement)
}

// selectedFilter determines the filter to apply. A nil filter matches everything.
func selectedFilter() (filter.CompiledFilter, error) {
	// Priority: command line filter > preset
	if filterExpr != "" && preset != "" {
		return nil, fmt.Errorf("--filter and --preset are mutually exclusive")
	}

	if filterExpr != "" {
		f, err := filters.Resolve(filterExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return f, nil
	}

	if preset != "" {
		f, ok := filters.GetFilter(preset)
		if !ok {
			return nil, &filter.UnknownPresetError{Name: preset}
		}
		return f, nil
	}

	return nil, nil
}
