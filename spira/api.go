package spira

import (
	"context"
)

// API defines the interface for Spira operations
type API interface {
	// TestConnection verifies the client can reach Spira with its credentials
	TestConnection(ctx context.Context) error

	// Projects lists every project visible to the user
	Projects(ctx context.Context) ([]Project, error)
	// ProjectByID returns nil when the project does not exist
	ProjectByID(ctx context.Context, projectID int64) (*Project, error)
	// ProjectByName returns nil when no project has the name
	ProjectByName(ctx context.Context, name string) (*Project, error)

	// RequirementsCount counts the requirements of a project
	RequirementsCount(ctx context.Context, projectID int64) (int64, error)
	// Requirements lists the requirements of a project
	Requirements(ctx context.Context, projectID int64) ([]Requirement, error)
	// RequirementByID returns nil when the requirement does not exist
	RequirementByID(ctx context.Context, projectID, requirementID int64) (*Requirement, error)
	// RequirementByName returns nil when no requirement of the project has the name
	RequirementByName(ctx context.Context, projectID int64, name string) (*Requirement, error)

	// RequirementCounts counts requirements for many projects at once
	RequirementCounts(ctx context.Context, projects []Project) (map[int64]int64, error)
	// RequirementsByProject lists requirements for many projects at once
	RequirementsByProject(ctx context.Context, projects []Project) (map[int64][]Requirement, error)
}

var _ API = (*Client)(nil)
