package spira

import (
	"fmt"
	"net/url"
	"strings"
)

// Version identifies a REST API version exposed by the service.
type Version int

const (
	V4_0 Version = iota + 1
	V5_0
	V6_0
	V7_0
)

var versionNames = map[Version]string{
	V4_0: "v4_0",
	V5_0: "v5_0",
	V6_0: "v6_0",
	V7_0: "v7_0",
}

// String returns the URL segment form of the version, e.g. "v5_0"
func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

// ParseVersion accepts "v5_0", "5.0", "5_0" or "v5.0"
func ParseVersion(s string) (Version, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimPrefix(norm, "v")
	norm = strings.ReplaceAll(norm, ".", "_")
	for v, name := range versionNames {
		if name[1:] == norm {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, s)
}

// segment maps a version to its URL segment. Only versions whose payloads
// this package has been verified against are accepted.
func (v Version) segment() (string, error) {
	switch v {
	case V5_0:
		return versionNames[v], nil
	case V4_0, V6_0, V7_0:
		return "", fmt.Errorf("%w: %s is not implemented", ErrUnsupportedVersion, v)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
}

// Endpoint is the logical name of a resource path.
type Endpoint string

const (
	EndpointProjects          Endpoint = "projects"
	EndpointProject           Endpoint = "project"
	EndpointRequirements      Endpoint = "requirements"
	EndpointRequirementsCount Endpoint = "requirements_count"
	EndpointRequirement       Endpoint = "requirement"
)

// route is the registry entry for one endpoint.
type route struct {
	template string
	args     int
	notFound string
}

var routes = map[Endpoint]route{
	EndpointProjects:          {template: "projects"},
	EndpointProject:           {template: "projects/%d", args: 1, notFound: `"Cannot find the supplied project id in the system"`},
	EndpointRequirements:      {template: "projects/%d/requirements", args: 1},
	EndpointRequirementsCount: {template: "projects/%d/requirements/count", args: 1},
	EndpointRequirement:       {template: "projects/%d/requirements/%d", args: 2, notFound: `"Cannot find the supplied requirement id in the system"`},
}

// resource binds an endpoint to the decoder for the entities it returns.
type resource[T any] struct {
	endpoint Endpoint
	decode   func(Object, scope) (T, error)
}

var (
	projectResource      = resource[Project]{endpoint: EndpointProject, decode: decodeProject}
	projectsResource     = resource[Project]{endpoint: EndpointProjects, decode: decodeProject}
	requirementResource  = resource[Requirement]{endpoint: EndpointRequirement, decode: decodeRequirement}
	requirementsResource = resource[Requirement]{endpoint: EndpointRequirements, decode: decodeRequirement}
)

// Registry resolves endpoints to URLs for one API version.
type Registry struct {
	version Version
	root    string
}

// NewRegistry builds the registry for baseURL and version. Unsupported
// versions fail here rather than at request time.
func NewRegistry(baseURL string, version Version) (*Registry, error) {
	seg, err := version.segment()
	if err != nil {
		return nil, err
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, baseURL)
	}
	return &Registry{
		version: version,
		root:    fmt.Sprintf("%s/Services/%s/RestService.svc/", baseURL, seg),
	}, nil
}

// Version returns the API version the registry was built for
func (r *Registry) Version() Version {
	return r.version
}

// Root returns the service root every resource path is relative to
func (r *Registry) Root() string {
	return r.root
}

// Path renders the resource path for an endpoint.
func (r *Registry) Path(e Endpoint, ids ...int64) (string, error) {
	rt, ok := routes[e]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", e)
	}
	if len(ids) != rt.args {
		return "", fmt.Errorf("endpoint %q takes %d ids, got %d", e, rt.args, len(ids))
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		if id < 0 {
			return "", fmt.Errorf("endpoint %q: negative id %d", e, id)
		}
		args[i] = id
	}
	return fmt.Sprintf(rt.template, args...), nil
}

// URL renders the absolute URL for an endpoint
func (r *Registry) URL(e Endpoint, ids ...int64) (string, error) {
	path, err := r.Path(e, ids...)
	if err != nil {
		return "", err
	}
	return r.root + path, nil
}

// pagePath appends the one-based paging parameters. The service returns no
// rows at all for starting_row=0.
func pagePath(path string, startingRow, rows int64) string {
	return fmt.Sprintf("%s?starting_row=%d&number_of_rows=%d", path, startingRow, rows)
}

// notFoundSentinel returns the literal body the service sends instead of a
// 404 for endpoint e.
func notFoundSentinel(e Endpoint) (string, bool) {
	rt, ok := routes[e]
	if !ok || rt.notFound == "" {
		return "", false
	}
	return rt.notFound, true
}
