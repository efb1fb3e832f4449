package spira

import (
	"context"
	"encoding/json"
	"maps"
	"time"
)

// Requirement is a Spira requirement. Values are immutable; optional fields
// are exposed through (value, ok) getters.
type Requirement struct {
	client               *Client
	id                   int64
	projectID            int64
	status               RequirementStatus
	importance           *RequirementImportance
	authorID             int64
	ownerID              *int64
	releaseID            *int64
	componentID          *int64
	name                 string
	description          *string
	creationDate         time.Time
	lastUpdateDate       time.Time
	summary              bool
	releaseVersionNumber *string
	indentLevel          *string
	customProperties     map[string]any
}

// decodeRequirement builds a requirement from one JSON object. The project
// id comes from the request scope, not from the payload.
func decodeRequirement(o Object, s scope) (Requirement, error) {
	var (
		r   = Requirement{client: s.client, projectID: s.projectID}
		err error
	)

	if r.id, err = o.requiredInt("RequirementId"); err != nil {
		return Requirement{}, err
	}
	if r.status, err = decodeEnum(o, "StatusId", RequirementStatus.Valid); err != nil {
		return Requirement{}, err
	}
	if r.importance, err = decodeOptionalEnum(o, "ImportanceId", RequirementImportance.Valid); err != nil {
		return Requirement{}, err
	}
	if r.authorID, err = o.requiredInt("AuthorId"); err != nil {
		return Requirement{}, err
	}
	if r.ownerID, err = o.optionalInt("OwnerId"); err != nil {
		return Requirement{}, err
	}
	if r.releaseID, err = o.optionalInt("ReleaseId"); err != nil {
		return Requirement{}, err
	}
	if r.componentID, err = o.optionalInt("ComponentId"); err != nil {
		return Requirement{}, err
	}
	if r.name, err = o.requiredString("Name"); err != nil {
		return Requirement{}, err
	}
	if r.description, err = o.optionalString("Description"); err != nil {
		return Requirement{}, err
	}
	if r.creationDate, err = o.requiredDate("CreationDate"); err != nil {
		return Requirement{}, err
	}
	if r.lastUpdateDate, err = o.requiredDate("LastUpdateDate"); err != nil {
		return Requirement{}, err
	}
	if r.summary, err = o.requiredBool("Summary"); err != nil {
		return Requirement{}, err
	}
	if r.releaseVersionNumber, err = o.optionalString("ReleaseVersionNumber"); err != nil {
		return Requirement{}, err
	}
	if r.indentLevel, err = o.optionalString("IndentLevel"); err != nil {
		return Requirement{}, err
	}
	r.customProperties = o.optionalMap("CustomProperties")

	return r, nil
}

// ID returns the requirement id
func (r Requirement) ID() int64 { return r.id }

// ProjectID returns the id of the project the requirement was fetched under
func (r Requirement) ProjectID() int64 { return r.projectID }

// Status returns the workflow status
func (r Requirement) Status() RequirementStatus { return r.status }

// Importance returns the importance, if one is set
func (r Requirement) Importance() (RequirementImportance, bool) {
	if r.importance == nil {
		return 0, false
	}
	return *r.importance, true
}

// AuthorID returns the id of the user who created the requirement
func (r Requirement) AuthorID() int64 { return r.authorID }

// OwnerID returns the id of the owning user, if assigned
func (r Requirement) OwnerID() (int64, bool) { return deref(r.ownerID) }

// ReleaseID returns the id of the scheduled release, if any
func (r Requirement) ReleaseID() (int64, bool) { return deref(r.releaseID) }

// ComponentID returns the id of the component the requirement is part of, if any
func (r Requirement) ComponentID() (int64, bool) { return deref(r.componentID) }

// Name returns the requirement name
func (r Requirement) Name() string { return r.name }

// Description returns the description, if any
func (r Requirement) Description() (string, bool) { return deref(r.description) }

// CreationDate returns when the requirement was created
func (r Requirement) CreationDate() time.Time { return r.creationDate }

// LastUpdateDate returns when the requirement was last modified
func (r Requirement) LastUpdateDate() time.Time { return r.lastUpdateDate }

// Summary reports whether this is a parent requirement grouping others
func (r Requirement) Summary() bool { return r.summary }

// ReleaseVersionNumber returns the version string of the scheduled release, if any
func (r Requirement) ReleaseVersionNumber() (string, bool) { return deref(r.releaseVersionNumber) }

// IndentLevel returns the hierarchy position code, if any
func (r Requirement) IndentLevel() (string, bool) { return deref(r.indentLevel) }

// CustomProperties returns a copy of the deployment-specific fields, or nil
func (r Requirement) CustomProperties() map[string]any {
	return maps.Clone(r.customProperties)
}

// Project fetches the project the requirement belongs to
func (r Requirement) Project(ctx context.Context) (*Project, error) {
	if r.client == nil {
		return nil, errUnbound
	}
	return r.client.ProjectByID(ctx, r.projectID)
}

// MarshalJSON encodes the requirement with the service's field names
func (r Requirement) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RequirementID        int64          `json:"RequirementId"`
		ProjectID            int64          `json:"ProjectId"`
		StatusID             int            `json:"StatusId"`
		ImportanceID         *int           `json:"ImportanceId"`
		AuthorID             int64          `json:"AuthorId"`
		OwnerID              *int64         `json:"OwnerId"`
		ReleaseID            *int64         `json:"ReleaseId"`
		ComponentID          *int64         `json:"ComponentId"`
		Name                 string         `json:"Name"`
		Description          *string        `json:"Description"`
		CreationDate         string         `json:"CreationDate"`
		LastUpdateDate       string         `json:"LastUpdateDate"`
		Summary              bool           `json:"Summary"`
		ReleaseVersionNumber *string        `json:"ReleaseVersionNumber"`
		IndentLevel          *string        `json:"IndentLevel"`
		CustomProperties     map[string]any `json:"CustomProperties"`
	}{
		RequirementID:        r.id,
		ProjectID:            r.projectID,
		StatusID:             int(r.status),
		ImportanceID:         importanceCode(r.importance),
		AuthorID:             r.authorID,
		OwnerID:              r.ownerID,
		ReleaseID:            r.releaseID,
		ComponentID:          r.componentID,
		Name:                 r.name,
		Description:          r.description,
		CreationDate:         EncodeDate(r.creationDate),
		LastUpdateDate:       EncodeDate(r.lastUpdateDate),
		Summary:              r.summary,
		ReleaseVersionNumber: r.releaseVersionNumber,
		IndentLevel:          r.indentLevel,
		CustomProperties:     r.customProperties,
	})
}

func importanceCode(i *RequirementImportance) *int {
	if i == nil {
		return nil
	}
	code := int(*i)
	return &code
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
