package spira

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RequirementCounts counts the requirements of each project concurrently,
// keyed by project id. The first failure cancels the remaining requests.
func (c *Client) RequirementCounts(ctx context.Context, projects []Project) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(projects))
	if len(projects) == 0 {
		return counts, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	var mu sync.Mutex
	for _, project := range projects {
		g.Go(func() error {
			count, err := c.RequirementsCount(ctx, project.ID())
			if err != nil {
				return err
			}

			mu.Lock()
			counts[project.ID()] = count
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// RequirementsByProject lists the requirements of each project
// concurrently, keyed by project id.
func (c *Client) RequirementsByProject(ctx context.Context, projects []Project) (map[int64][]Requirement, error) {
	results := make(map[int64][]Requirement, len(projects))
	if len(projects) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	var mu sync.Mutex
	for _, project := range projects {
		g.Go(func() error {
			requirements, err := c.Requirements(ctx, project.ID())
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int64("project_id", project.ID()).
					Str("project", project.Name()).
					Msg("Failed to get requirements")
				return err
			}

			mu.Lock()
			results[project.ID()] = requirements
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
