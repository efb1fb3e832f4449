package output

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/s0up4200/spiractl/spira"
)

const dateLayout = "2006-01-02"

// FormatOptions controls console formatting
type FormatOptions struct {
	ShowDescription bool
	Markdown        bool
	// Tree nests requirements by their indent level
	Tree bool
}

// ConsoleFormatter provides console output formatting for Spira entities
type ConsoleFormatter struct {
	options     FormatOptions
	description *DescriptionRenderer
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options FormatOptions) *ConsoleFormatter {
	return &ConsoleFormatter{
		options:     options,
		description: NewDescriptionRenderer(options.Markdown),
	}
}

func branch(isLast bool) (prefix, indent string) {
	if isLast {
		return "╰", "    "
	}
	return "├", "│   "
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

// FormatProjectList formats projects, with requirement counts when known
func (f *ConsoleFormatter) FormatProjectList(projects []spira.Project, counts map[int64]int64) string {
	if len(projects) == 0 {
		return "No projects found\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(projects), "Project"), len(projects))

	for i, p := range projects {
		isLast := i == len(projects)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── [PR:%d] %s\n", prefix, p.ID(), p.Name())
		fmt.Fprintf(&sb, "%sCreated: %s\n", indent, p.CreationDate().Format(dateLayout))
		if count, ok := counts[p.ID()]; ok {
			fmt.Fprintf(&sb, "%sRequirements: %d\n", indent, count)
		}
		f.writeDescription(&sb, indent, p.Description())

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatRequirementList formats the requirements of one project as a tree
// following their indent levels
func (f *ConsoleFormatter) FormatRequirementList(projectName string, requirements []spira.Requirement) string {
	if len(requirements) == 0 {
		return fmt.Sprintf("No requirements found in %s\n", projectName)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s in %s (%d):\n\n", plural(len(requirements), "Requirement"), projectName, len(requirements))

	for i, r := range requirements {
		isLast := i == len(requirements)-1
		prefix, indent := branch(isLast)

		nesting := ""
		if level, ok := r.IndentLevel(); f.options.Tree && ok && len(level) > 3 {
			nesting = strings.Repeat("  ", len(level)/3-1)
		}

		fmt.Fprintf(&sb, "%s── %s[RQ:%d] %s\n", prefix, nesting, r.ID(), r.Name())
		fmt.Fprintf(&sb, "%s%s%s\n", indent, nesting, requirementFacts(r))

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatRequirement formats a single requirement in detail
func (f *ConsoleFormatter) FormatRequirement(r spira.Requirement) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n[RQ:%d] %s\n", r.ID(), r.Name())

	type row struct{ label, value string }
	rows := []row{
		{"Project", fmt.Sprintf("PR:%d", r.ProjectID())},
		{"Status", r.Status().String()},
	}
	if importance, ok := r.Importance(); ok {
		rows = append(rows, row{"Importance", importance.String()})
	}
	rows = append(rows, row{"Author", fmt.Sprintf("%d", r.AuthorID())})
	if owner, ok := r.OwnerID(); ok {
		rows = append(rows, row{"Owner", fmt.Sprintf("%d", owner)})
	}
	if version, ok := r.ReleaseVersionNumber(); ok {
		rows = append(rows, row{"Release", version})
	}
	if component, ok := r.ComponentID(); ok {
		rows = append(rows, row{"Component", fmt.Sprintf("%d", component)})
	}
	rows = append(rows,
		row{"Created", r.CreationDate().Format(dateLayout)},
		row{"Updated", r.LastUpdateDate().Format(dateLayout)},
	)
	if r.Summary() {
		rows = append(rows, row{"Summary", "yes"})
	}

	props := r.CustomProperties()
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if props[name] != nil {
			rows = append(rows, row{name, fmt.Sprint(props[name])})
		}
	}

	for i, rw := range rows {
		prefix, _ := branch(i == len(rows)-1)
		fmt.Fprintf(&sb, "%s── %s: %s\n", prefix, rw.label, rw.value)
	}

	if description, ok := r.Description(); ok {
		if text := f.description.Render(description); text != "" {
			fmt.Fprintf(&sb, "\n%s\n", text)
		}
	}

	return sb.String()
}

// FormatSummary formats per-project requirement totals
func (f *ConsoleFormatter) FormatSummary(summaries []ProjectSummary) string {
	if len(summaries) == 0 {
		return "No projects found\n"
	}

	var sb strings.Builder
	var total int64
	sb.WriteString("\nRequirement summary:\n\n")

	for i, s := range summaries {
		isLast := i == len(summaries)-1
		prefix, indent := branch(isLast)
		total += s.Requirements

		fmt.Fprintf(&sb, "%s── [PR:%d] %s: %d %s\n", prefix, s.ID, s.Name, s.Requirements, plural(int(s.Requirements), "requirement"))
		if len(s.ByStatus) > 0 {
			parts := make([]string, 0, len(s.ByStatus))
			for _, status := range slices.Sorted(maps.Keys(s.ByStatus)) {
				parts = append(parts, fmt.Sprintf("%s: %d", status, s.ByStatus[status]))
			}
			fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(parts, " | "))
		}
	}

	fmt.Fprintf(&sb, "\nTotal: %d %s\n", total, plural(int(total), "requirement"))
	return sb.String()
}

func requirementFacts(r spira.Requirement) string {
	parts := []string{r.Status().String()}
	if importance, ok := r.Importance(); ok {
		parts = append(parts, importance.String())
	}
	if owner, ok := r.OwnerID(); ok {
		parts = append(parts, fmt.Sprintf("Owner: %d", owner))
	}
	if version, ok := r.ReleaseVersionNumber(); ok {
		parts = append(parts, fmt.Sprintf("Release: %s", version))
	}
	parts = append(parts, fmt.Sprintf("Updated: %s", r.LastUpdateDate().Format(dateLayout)))
	return strings.Join(parts, " | ")
}

func (f *ConsoleFormatter) writeDescription(sb *strings.Builder, indent, html string) {
	if !f.options.ShowDescription {
		return
	}
	text := f.description.Render(html)
	if text == "" {
		return
	}
	for line := range strings.SplitSeq(text, "\n") {
		fmt.Fprintf(sb, "%s%s\n", indent, line)
	}
}
