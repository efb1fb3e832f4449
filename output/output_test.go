package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/spiractl/spira"
)

func testProjects(t *testing.T) []spira.Project {
	t.Helper()
	projects, err := spira.DecodeProjects([]byte(`[
		{"ProjectId": 1, "Name": "Library", "Description": "<p>Books <strong>and</strong> more</p>", "CreationDate": "/Date(1704067200000)/"},
		{"ProjectId": 2, "Name": "Sample", "Description": null, "CreationDate": "/Date(1704067200000)/"}
	]`))
	require.NoError(t, err)
	return projects
}

func testRequirements(t *testing.T) []spira.Requirement {
	t.Helper()
	requirements, err := spira.DecodeRequirements([]byte(`[
		{"RequirementId": 10, "StatusId": 10, "ImportanceId": 1, "AuthorId": 1, "OwnerId": 4,
		 "Name": "Epic", "CreationDate": "/Date(1704067200000)/", "LastUpdateDate": "/Date(1704067200000)/",
		 "Summary": true, "IndentLevel": "AAA", "ReleaseVersionNumber": "1.0.0.0",
		 "Description": "<p>Top level</p>", "CustomProperties": {"Custom_01": "Web", "Custom_02": null}},
		{"RequirementId": 11, "StatusId": 3, "ImportanceId": null, "AuthorId": 1, "OwnerId": null,
		 "Name": "Story", "CreationDate": "/Date(1704067200000)/", "LastUpdateDate": "/Date(1704067200000)/",
		 "Summary": false, "IndentLevel": "AAAAAA"}
	]`), 1)
	require.NoError(t, err)
	return requirements
}

func TestDescriptionRenderer(t *testing.T) {
	tests := []struct {
		name     string
		markdown bool
		html     string
		want     string
	}{
		{"markdown bold", true, "<p>Books <strong>and</strong> more</p>", "Books **and** more"},
		{"markdown list", true, "<ul><li>one</li><li>two</li></ul>", "- one\n- two"},
		{"stripped", false, "<p>First</p><p>&nbsp;</p><p>Second</p>", "First\n\nSecond"},
		{"empty", true, "   ", ""},
		{"plain text", false, "no tags", "no tags"},
		{"stripped list", false, "<p>Steps:</p><ul><li>one</li><li>two</li></ul>", "Steps:\n\none\ntwo"},
		{"stripped breaks", false, "line one<br>line <em>two</em>", "line one\nline two"},
		{"stripped entities", false, "<p>Tom &amp; Jerry &lt;3</p>", "Tom & Jerry <3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewDescriptionRenderer(tt.markdown).Render(tt.html))
		})
	}
}

func TestFormatProjectList(t *testing.T) {
	f := NewConsoleFormatter(FormatOptions{ShowDescription: true})

	out := f.FormatProjectList(testProjects(t), map[int64]int64{1: 12})
	assert.Contains(t, out, "Projects (2):")
	assert.Contains(t, out, "├── [PR:1] Library")
	assert.Contains(t, out, "│   Requirements: 12")
	assert.Contains(t, out, "│   Books and more")
	assert.Contains(t, out, "╰── [PR:2] Sample")
	assert.Contains(t, out, "    Created: 2024-01-01")
	assert.Equal(t, 1, strings.Count(out, "Requirements:"))

	assert.Equal(t, "No projects found\n", f.FormatProjectList(nil, nil))
}

func TestFormatRequirementList(t *testing.T) {
	f := NewConsoleFormatter(FormatOptions{Tree: true})

	out := f.FormatRequirementList("Library", testRequirements(t))
	assert.Contains(t, out, "Requirements in Library (2):")
	assert.Contains(t, out, "├── [RQ:10] Epic")
	assert.Contains(t, out, "│   Completed | Critical | Owner: 4 | Release: 1.0.0.0 | Updated: 2024-01-01")
	assert.Contains(t, out, "╰──   [RQ:11] Story")
	assert.Contains(t, out, "      InProgress | Updated: 2024-01-01")

	assert.Equal(t, "No requirements found in Library\n", f.FormatRequirementList("Library", nil))

	flat := NewConsoleFormatter(FormatOptions{}).FormatRequirementList("Library", testRequirements(t))
	assert.Contains(t, flat, "╰── [RQ:11] Story")
}

func TestFormatRequirement(t *testing.T) {
	f := NewConsoleFormatter(FormatOptions{Markdown: true})

	out := f.FormatRequirement(testRequirements(t)[0])
	assert.Contains(t, out, "[RQ:10] Epic")
	assert.Contains(t, out, "├── Importance: Critical")
	assert.Contains(t, out, "├── Summary: yes")
	assert.Contains(t, out, "╰── Custom_01: Web")
	assert.NotContains(t, out, "Custom_02")
	assert.Contains(t, out, "Top level")

	out = f.FormatRequirement(testRequirements(t)[1])
	assert.NotContains(t, out, "Importance")
	assert.NotContains(t, out, "Owner")
	assert.Contains(t, out, "╰── Updated: 2024-01-01")
}

func TestFormatSummary(t *testing.T) {
	f := NewConsoleFormatter(FormatOptions{})

	out := f.FormatSummary([]ProjectSummary{
		{ID: 1, Name: "Library", Requirements: 3, ByStatus: map[string]int{"Planned": 1, "Completed": 2}},
		{ID: 2, Name: "Sample", Requirements: 1},
	})
	assert.Contains(t, out, "├── [PR:1] Library: 3 requirements")
	assert.Contains(t, out, "│   Completed: 2 | Planned: 1")
	assert.Contains(t, out, "╰── [PR:2] Sample: 1 requirement")
	assert.Contains(t, out, "Total: 4 requirements")

	assert.Equal(t, "No projects found\n", f.FormatSummary(nil))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinterJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON, FormatOptions{})

	requirements := testRequirements(t)
	require.NoError(t, p.Requirements("Library", requirements))

	decoded, err := spira.DecodeRequirements(buf.Bytes(), 1)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, requirements[0].Name(), decoded[0].Name())
	assert.Equal(t, requirements[1].Status(), decoded[1].Status())
}

func TestPrinterYAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatYAML, FormatOptions{})

	require.NoError(t, p.Requirements("Library", testRequirements(t)))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Epic", got[0]["name"])
	assert.Equal(t, "Critical", got[0]["importance"])
	assert.Equal(t, 4, got[0]["owner_id"])
	assert.NotContains(t, got[1], "owner_id")
	assert.NotContains(t, got[1], "importance")

	buf.Reset()
	require.NoError(t, p.Projects(testProjects(t), map[int64]int64{2: 0}))
	var projects []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &projects))
	assert.NotContains(t, projects[0], "requirements")
	assert.Equal(t, 0, projects[1]["requirements"])
}

func TestPrinterCount(t *testing.T) {
	tests := []struct {
		format Format
		check  func(t *testing.T, out []byte)
	}{
		{FormatTable, func(t *testing.T, out []byte) { assert.Equal(t, "7\n", string(out)) }},
		{FormatJSON, func(t *testing.T, out []byte) {
			var got map[string]int64
			require.NoError(t, json.Unmarshal(out, &got))
			assert.Equal(t, map[string]int64{"project_id": 1, "count": 7}, got)
		}},
		{FormatYAML, func(t *testing.T, out []byte) { assert.Contains(t, string(out), "count: 7") }},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewPrinter(&buf, tt.format, FormatOptions{}).Count(1, 7))
			tt.check(t, buf.Bytes())
		})
	}
}
