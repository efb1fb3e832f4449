package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/spiractl/spira"
)

// Format selects how a Printer renders its output
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected table, json or yaml)", s)
	}
}

// ProjectSummary is the requirement tally of one project
type ProjectSummary struct {
	ID           int64          `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Requirements int64          `json:"requirements" yaml:"requirements"`
	ByStatus     map[string]int `json:"by_status,omitempty" yaml:"by_status,omitempty"`
}

// Printer writes entities in the configured format. JSON output uses the
// service's wire form so it can be decoded again.
type Printer struct {
	w         io.Writer
	format    Format
	formatter *ConsoleFormatter
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, format Format, options FormatOptions) *Printer {
	return &Printer{
		w:         w,
		format:    format,
		formatter: NewConsoleFormatter(options),
	}
}

// Projects prints a project list. counts may be nil.
func (p *Printer) Projects(projects []spira.Project, counts map[int64]int64) error {
	switch p.format {
	case FormatJSON:
		return p.json(projects)
	case FormatYAML:
		views := make([]projectView, 0, len(projects))
		for _, project := range projects {
			v := newProjectView(project)
			if count, ok := counts[project.ID()]; ok {
				v.Requirements = &count
			}
			views = append(views, v)
		}
		return p.yaml(views)
	default:
		return p.text(p.formatter.FormatProjectList(projects, counts))
	}
}

// Project prints a single project
func (p *Printer) Project(project spira.Project) error {
	return p.Projects([]spira.Project{project}, nil)
}

// Requirements prints the requirements of one project
func (p *Printer) Requirements(projectName string, requirements []spira.Requirement) error {
	switch p.format {
	case FormatJSON:
		return p.json(requirements)
	case FormatYAML:
		views := make([]requirementView, 0, len(requirements))
		for _, r := range requirements {
			views = append(views, newRequirementView(r))
		}
		return p.yaml(views)
	default:
		return p.text(p.formatter.FormatRequirementList(projectName, requirements))
	}
}

// Requirement prints a single requirement in detail
func (p *Printer) Requirement(r spira.Requirement) error {
	switch p.format {
	case FormatJSON:
		return p.json(r)
	case FormatYAML:
		return p.yaml(newRequirementView(r))
	default:
		return p.text(p.formatter.FormatRequirement(r))
	}
}

// Summary prints per-project requirement totals
func (p *Printer) Summary(summaries []ProjectSummary) error {
	switch p.format {
	case FormatJSON:
		return p.json(summaries)
	case FormatYAML:
		return p.yaml(summaries)
	default:
		return p.text(p.formatter.FormatSummary(summaries))
	}
}

// Count prints a bare number
func (p *Printer) Count(projectID, count int64) error {
	switch p.format {
	case FormatJSON:
		return p.json(map[string]int64{"project_id": projectID, "count": count})
	case FormatYAML:
		return p.yaml(map[string]int64{"project_id": projectID, "count": count})
	default:
		return p.text(fmt.Sprintf("%d\n", count))
	}
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func (p *Printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func (p *Printer) text(s string) error {
	_, err := io.WriteString(p.w, s)
	return err
}

type projectView struct {
	ID           int64  `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description,omitempty"`
	CreationDate string `yaml:"creation_date"`
	Requirements *int64 `yaml:"requirements,omitempty"`
}

func newProjectView(p spira.Project) projectView {
	return projectView{
		ID:           p.ID(),
		Name:         p.Name(),
		Description:  p.Description(),
		CreationDate: p.CreationDate().Format(dateLayout),
	}
}

type requirementView struct {
	ID                   int64          `yaml:"id"`
	ProjectID            int64          `yaml:"project_id"`
	Name                 string         `yaml:"name"`
	Status               string         `yaml:"status"`
	Importance           string         `yaml:"importance,omitempty"`
	AuthorID             int64          `yaml:"author_id"`
	OwnerID              *int64         `yaml:"owner_id,omitempty"`
	ReleaseID            *int64         `yaml:"release_id,omitempty"`
	ReleaseVersionNumber string         `yaml:"release,omitempty"`
	ComponentID          *int64         `yaml:"component_id,omitempty"`
	IndentLevel          string         `yaml:"indent_level,omitempty"`
	Summary              bool           `yaml:"summary"`
	CreationDate         string         `yaml:"creation_date"`
	LastUpdateDate       string         `yaml:"last_update_date"`
	Description          string         `yaml:"description,omitempty"`
	CustomProperties     map[string]any `yaml:"custom_properties,omitempty"`
}

func newRequirementView(r spira.Requirement) requirementView {
	v := requirementView{
		ID:               r.ID(),
		ProjectID:        r.ProjectID(),
		Name:             r.Name(),
		Status:           r.Status().String(),
		AuthorID:         r.AuthorID(),
		Summary:          r.Summary(),
		CreationDate:     r.CreationDate().Format(dateLayout),
		LastUpdateDate:   r.LastUpdateDate().Format(dateLayout),
		CustomProperties: r.CustomProperties(),
	}
	if importance, ok := r.Importance(); ok {
		v.Importance = importance.String()
	}
	if id, ok := r.OwnerID(); ok {
		v.OwnerID = &id
	}
	if id, ok := r.ReleaseID(); ok {
		v.ReleaseID = &id
	}
	if id, ok := r.ComponentID(); ok {
		v.ComponentID = &id
	}
	v.ReleaseVersionNumber, _ = r.ReleaseVersionNumber()
	v.IndentLevel, _ = r.IndentLevel()
	v.Description, _ = r.Description()
	return v
}
