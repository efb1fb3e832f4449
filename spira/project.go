package spira

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var errUnbound = errors.New("entity is not bound to a client")

// scope is the context a decoded entity is bound to: the client it may use
// for further calls and, for project-scoped resources, the owning project.
type scope struct {
	client    *Client
	projectID int64
}

// Project is a Spira project. Values are immutable; refresh by re-fetching.
type Project struct {
	client       *Client
	id           int64
	name         string
	description  string
	creationDate time.Time
}

func decodeProject(o Object, s scope) (Project, error) {
	id, err := o.requiredInt("ProjectId")
	if err != nil {
		return Project{}, err
	}
	name, err := o.requiredString("Name")
	if err != nil {
		return Project{}, err
	}
	if name == "" {
		return Project{}, &InvalidFieldError{Field: "Name", Reason: "empty project name"}
	}
	description, err := o.optionalString("Description")
	if err != nil {
		return Project{}, err
	}
	created, err := o.requiredDate("CreationDate")
	if err != nil {
		return Project{}, err
	}

	p := Project{
		client:       s.client,
		id:           id,
		name:         name,
		creationDate: created,
	}
	if description != nil {
		p.description = *description
	}
	return p, nil
}

// ID returns the service-assigned project id
func (p Project) ID() int64 { return p.id }

// Name returns the project name
func (p Project) Name() string { return p.name }

// Description returns the project description, which may contain HTML
func (p Project) Description() string { return p.description }

// CreationDate returns when the project was created
func (p Project) CreationDate() time.Time { return p.creationDate }

// Requirements lists every requirement in the project
func (p Project) Requirements(ctx context.Context) ([]Requirement, error) {
	if p.client == nil {
		return nil, errUnbound
	}
	return p.client.Requirements(ctx, p.id)
}

// RequirementsCount returns the number of requirements in the project
func (p Project) RequirementsCount(ctx context.Context) (int64, error) {
	if p.client == nil {
		return 0, errUnbound
	}
	return p.client.RequirementsCount(ctx, p.id)
}

// RequirementByID fetches one requirement of the project, or nil if absent
func (p Project) RequirementByID(ctx context.Context, requirementID int64) (*Requirement, error) {
	if p.client == nil {
		return nil, errUnbound
	}
	return p.client.RequirementByID(ctx, p.id, requirementID)
}

// RequirementByName finds a requirement of the project by exact name, or nil
func (p Project) RequirementByName(ctx context.Context, name string) (*Requirement, error) {
	if p.client == nil {
		return nil, errUnbound
	}
	return p.client.RequirementByName(ctx, p.id, name)
}

// MarshalJSON encodes the project with the service's field names
func (p Project) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProjectID    int64  `json:"ProjectId"`
		Name         string `json:"Name"`
		Description  string `json:"Description"`
		CreationDate string `json:"CreationDate"`
	}{
		ProjectID:    p.id,
		Name:         p.name,
		Description:  p.description,
		CreationDate: EncodeDate(p.creationDate),
	})
}
