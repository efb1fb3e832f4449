package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/spiractl/spira"
)

var withCounts bool

// projectsCmd groups the project commands
var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "pr"},
	Short:   "List and inspect projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects visible to the configured user",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsGetCmd = &cobra.Command{
	Use:   "get <id|name>",
	Short: "Show a single project by id or exact name",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsGet,
}

func init() {
	projectsListCmd.Flags().BoolVar(&withCounts, "counts", false, "include the requirement count of every project")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsGetCmd)
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projects, err := spiraClient.Projects(ctx)
	if err != nil {
		return err
	}
	logger.Debug().Int("count", len(projects)).Msg("Fetched projects")

	var counts map[int64]int64
	if withCounts {
		counts, err = spiraClient.RequirementCounts(ctx, projects)
		if err != nil {
			return err
		}
	}

	return printer.Projects(projects, counts)
}

func runProjectsGet(cmd *cobra.Command, args []string) error {
	project, err := resolveProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printer.Project(*project)
}

// errProjectNotFound is returned when a project reference matches nothing
var errProjectNotFound = errors.New("project not found")

// resolveProject looks a project up by numeric id, falling back to its exact name
func resolveProject(ctx context.Context, ref string) (*spira.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("a project id or name is required")
	}

	var (
		project *spira.Project
		err     error
	)
	if id, convErr := strconv.ParseInt(strings.TrimPrefix(strings.ToUpper(ref), "PR:"), 10, 64); convErr == nil {
		project, err = spiraClient.ProjectByID(ctx, id)
	} else {
		project, err = spiraClient.ProjectByName(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %s", errProjectNotFound, ref)
	}
	return project, nil
}
