package spira

// DecodeProjects decodes a projects payload obtained elsewhere, e.g. a saved
// response. The projects are not bound to a client.
func DecodeProjects(body []byte) ([]Project, error) {
	return decodeArray(body, scope{}, decodeProject)
}

// DecodeRequirements decodes a requirements payload of the given project.
// The requirements are not bound to a client.
func DecodeRequirements(body []byte, projectID int64) ([]Requirement, error) {
	return decodeArray(body, scope{projectID: projectID}, decodeRequirement)
}

// UnmarshalJSON decodes a project from the service's wire form
func (p *Project) UnmarshalJSON(data []byte) error {
	v, err := decodeOne(data, scope{}, decodeProject)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// UnmarshalJSON decodes a requirement from the service's wire form. The
// service omits the project id, so it is taken from ProjectId when present.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	o, err := parseObject(data)
	if err != nil {
		return err
	}
	projectID, err := o.optionalInt("ProjectId")
	if err != nil {
		return err
	}

	s := scope{}
	if projectID != nil {
		s.projectID = *projectID
	}
	v, err := decodeRequirement(o, s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
