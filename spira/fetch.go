package spira

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Projects lists every project the user can access
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	projects, err := fetchList(ctx, c, projectsResource, scope{client: c}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}

	c.logger.Debug().Int("count", len(projects)).Msg("Retrieved projects from Spira")
	return projects, nil
}

// ProjectByID fetches one project. A missing project is (nil, nil).
func (c *Client) ProjectByID(ctx context.Context, projectID int64) (*Project, error) {
	p, err := fetchOne(ctx, c, projectResource, scope{client: c}, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", projectID, err)
	}
	return p, nil
}

// ProjectByName returns the first project whose name equals name exactly.
// The service cannot query by name, so this lists all projects.
func (c *Client) ProjectByName(ctx context.Context, name string) (*Project, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Name() == name {
			return &projects[i], nil
		}
	}

	c.logger.Debug().Str("name", name).Msg("No project with this name")
	return nil, nil
}

// RequirementsCount returns the number of requirements in a project
func (c *Client) RequirementsCount(ctx context.Context, projectID int64) (int64, error) {
	path, err := c.registry.Path(EndpointRequirementsCount, projectID)
	if err != nil {
		return 0, err
	}

	body, err := c.get(ctx, path)
	if err != nil {
		c.metrics.fetch(EndpointRequirementsCount, outcomeError)
		return 0, fmt.Errorf("failed to count requirements of project %d: %w", projectID, err)
	}
	count, err := decodeCount(body)
	if err != nil {
		c.metrics.fetch(EndpointRequirementsCount, outcomeError)
		return 0, fmt.Errorf("failed to count requirements of project %d: %w", projectID, err)
	}

	c.metrics.fetch(EndpointRequirementsCount, outcomeOK)
	return count, nil
}

// Requirements lists every requirement of a project. It counts first and
// then asks for exactly that many rows starting at row 1; an empty project
// costs no list request.
func (c *Client) Requirements(ctx context.Context, projectID int64) ([]Requirement, error) {
	count, err := c.RequirementsCount(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []Requirement{}, nil
	}

	s := scope{client: c, projectID: projectID}
	requirements, err := fetchList(ctx, c, requirementsResource, s, pageOf(1, count), projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get requirements of project %d: %w", projectID, err)
	}

	c.logger.Debug().
		Int64("project_id", projectID).
		Int64("expected", count).
		Int("count", len(requirements)).
		Msg("Retrieved requirements from Spira")
	return requirements, nil
}

// RequirementByID fetches one requirement of a project. A missing
// requirement is (nil, nil).
func (c *Client) RequirementByID(ctx context.Context, projectID, requirementID int64) (*Requirement, error) {
	s := scope{client: c, projectID: projectID}
	r, err := fetchOne(ctx, c, requirementResource, s, projectID, requirementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get requirement %d of project %d: %w", requirementID, projectID, err)
	}
	return r, nil
}

// RequirementByName returns the first requirement of a project whose name
// equals name exactly, or nil.
func (c *Client) RequirementByName(ctx context.Context, projectID int64, name string) (*Requirement, error) {
	requirements, err := c.Requirements(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range requirements {
		if requirements[i].Name() == name {
			return &requirements[i], nil
		}
	}
	return nil, nil
}

// page selects a one-based row window of a list endpoint.
type page struct {
	startingRow int64
	rows        int64
}

func pageOf(startingRow, rows int64) *page {
	return &page{startingRow: startingRow, rows: rows}
}

// fetchOne resolves a single-entity endpoint, mapping the service's
// not-found sentinel body to a nil result.
func fetchOne[T any](ctx context.Context, c *Client, res resource[T], s scope, ids ...int64) (*T, error) {
	path, err := c.registry.Path(res.endpoint, ids...)
	if err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, path)
	if err != nil {
		c.metrics.fetch(res.endpoint, outcomeError)
		return nil, err
	}
	if sentinel, ok := notFoundSentinel(res.endpoint); ok && string(body) == sentinel {
		c.metrics.fetch(res.endpoint, outcomeNotFound)
		c.logger.Debug().Str("path", path).Msg("Spira resource not found")
		return nil, nil
	}
	if err := checkStatus(path, status, body); err != nil {
		c.metrics.fetch(res.endpoint, outcomeError)
		return nil, err
	}

	v, err := decodeOne(body, s, res.decode)
	if err != nil {
		c.metrics.fetch(res.endpoint, outcomeError)
		return nil, err
	}
	c.metrics.fetch(res.endpoint, outcomeOK)
	return &v, nil
}

// fetchList resolves a collection endpoint, optionally restricted to a page.
func fetchList[T any](ctx context.Context, c *Client, res resource[T], s scope, p *page, ids ...int64) ([]T, error) {
	path, err := c.registry.Path(res.endpoint, ids...)
	if err != nil {
		return nil, err
	}
	if p != nil {
		path = pagePath(path, p.startingRow, p.rows)
	}

	body, err := c.get(ctx, path)
	if err != nil {
		c.metrics.fetch(res.endpoint, outcomeError)
		return nil, err
	}
	items, err := decodeArray(body, s, res.decode)
	if err != nil {
		c.metrics.fetch(res.endpoint, outcomeError)
		return nil, err
	}
	c.metrics.fetch(res.endpoint, outcomeOK)
	return items, nil
}

// decodeCount reads a bare non-negative integer body.
func decodeCount(body []byte) (int64, error) {
	v, err := parseJSON(body)
	if err != nil {
		return 0, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, &MalformedPayloadError{Reason: fmt.Sprintf("expected count, got %s", jsonKind(v)), Snippet: truncate(body)}
	}
	count, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil || count < 0 {
		return 0, &MalformedPayloadError{Reason: fmt.Sprintf("invalid count %s", n), Snippet: truncate(body), Err: err}
	}
	return count, nil
}
