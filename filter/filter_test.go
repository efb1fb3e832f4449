package filter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/spiractl/spira"
)

func testRequirements(t *testing.T) []spira.Requirement {
	t.Helper()

	old := spira.EncodeDate(time.Now().AddDate(0, 0, -100))
	recent := spira.EncodeDate(time.Now().AddDate(0, 0, -2))
	body := []map[string]any{
		{
			"RequirementId": 1, "StatusId": 10, "ImportanceId": 1, "AuthorId": 1, "OwnerId": 12,
			"Name": "Login page", "CreationDate": "/Date(1577836800000)/", "LastUpdateDate": old,
			"Summary": false, "IndentLevel": "AAAAAA", "ReleaseVersionNumber": "1.0.0.0",
			"CustomProperties": map[string]any{"Custom_01": "Web"},
		},
		{
			"RequirementId": 2, "StatusId": 3, "ImportanceId": nil, "AuthorId": 1, "OwnerId": nil,
			"Name": "Reporting", "CreationDate": "/Date(1704067200000)/", "LastUpdateDate": recent,
			"Summary": true, "IndentLevel": "AAA",
		},
		{
			"RequirementId": 3, "StatusId": 8, "ImportanceId": 4, "AuthorId": 2, "OwnerId": 5,
			"Name": "Legacy export", "CreationDate": "/Date(1577836800000)/", "LastUpdateDate": old,
			"Summary": false,
		},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	requirements, err := spira.DecodeRequirements(raw, 5)
	require.NoError(t, err)
	return requirements
}

func matchingIDs(f Filter, requirements []spira.Requirement) []int64 {
	ids := []int64{}
	for _, r := range Apply(f, requirements) {
		ids = append(ids, r.ID())
	}
	return ids
}

func TestCompileExpression(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "valid expression", expression: `hasStatus("completed")`},
		{name: "empty expression", expression: "", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `hasStatus("unclosed`, wantErr: true},
		{name: "non boolean", expression: `Name`, wantErr: true},
		{name: "unknown variable", expression: `Title == "x"`, wantErr: true},
		{name: "complex expression", expression: `hasImportance("high") and daysSince(LastUpdateDate) > 30 or Summary`},
		{name: "shorthand", expression: `status:"completed" AND importance:"critical"`},
		{name: "bad shorthand", expression: `status:"completed" AND colour:red`, wantErr: true, errContains: "colour:red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compileExpression(NewExprCompiler(), tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, filter)
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	requirements := testRequirements(t)

	tests := []struct {
		expression string
		want       []int64
	}{
		{`Status == "Completed"`, []int64{1}},
		{`hasStatus("in progress", "obsolete")`, []int64{2, 3}},
		{`hasImportance("critical")`, []int64{1}},
		{`Importance == ""`, []int64{2}},
		{`ownedBy(12)`, []int64{1}},
		{`isUnassigned()`, []int64{2}},
		{`daysSince(LastUpdateDate) > 30`, []int64{1, 3}},
		{`LastUpdateDate > daysAgo(7)`, []int64{2}},
		{`CreationDate < parseDate("2021-01-01")`, []int64{1, 3}},
		{`contains(Name, "LOGIN")`, []int64{1}},
		{`customProperty("Custom_01") == "Web"`, []int64{1}},
		{`hasCustomProperty("Custom_02")`, []int64{}},
		{`Summary`, []int64{2}},
		{`Depth == 2`, []int64{1}},
		{`ReleaseVersionNumber == "1.0.0.0"`, []int64{1}},
		{`AuthorID == 2 and ProjectID == 5`, []int64{3}},
		{`Requirement.Name() == "Reporting"`, []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := compileExpression(NewExprCompiler(), tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matchingIDs(filter, requirements))
		})
	}
}

func TestConvertShorthand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`status:"completed"`, `hasStatus("completed")`},
		{`status!:"obsolete"`, `not hasStatus("obsolete")`},
		{`importance:"high" AND owner:12`, `hasImportance("high") and ownedBy(12)`},
		{`name:"login" OR summary:true`, `contains(Name, "login") or Summary == true`},
		{`updated_before:"2024-01-01"`, `LastUpdateDate < parseDate("2024-01-01")`},
		{`created_after:"2024-01-01"`, `CreationDate > parseDate("2024-01-01")`},
		{`stale:30`, `daysSince(LastUpdateDate) > 30`},
		{`NOT property:"Custom_01"`, `not hasCustomProperty("Custom_01")`},
		{``, ``},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ConvertShorthand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShorthandEvaluation(t *testing.T) {
	requirements := testRequirements(t)

	f, err := NewManager().Resolve(`status!:"completed" AND stale:30`)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, matchingIDs(f, requirements))
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Summary`)
	require.NoError(t, err)
	again, err := compiler.Compile(` Summary `)
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = compiler.Compile(`not Summary`)
	require.NoError(t, err)
	_, err = compiler.Compile(`ID > 1`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isTeam": func(id int) bool { return id == 12 || id == 5 },
	}))

	filter, err := compiler.Compile(`isTeam(OwnerID)`)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, matchingIDs(filter, testRequirements(t)))
}

func TestManager(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.RegisterFilters(map[string]string{
		"Stale":    `daysSince(LastUpdateDate) > 30`,
		"critical": `importance:"critical"`,
	}))
	assert.Equal(t, []string{"critical", "stale"}, m.ListFilters())

	requirements := testRequirements(t)

	stale, err := m.Preset("stale", requirements)
	require.NoError(t, err)
	assert.Len(t, stale, 2)

	_, err = m.Preset("missing", requirements)
	var unknown *UnknownPresetError
	assert.ErrorAs(t, err, &unknown)

	resolved, err := m.Resolve("CRITICAL")
	require.NoError(t, err)
	assert.Equal(t, `hasImportance("critical")`, resolved.Expression())

	resolved, err = m.Resolve(`Summary`)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, matchingIDs(resolved, requirements))

	err = m.RegisterFilters(map[string]string{"ok": `Summary`, "broken": `Summary ==`})
	require.Error(t, err)
	_, exists := m.GetFilter("ok")
	assert.False(t, exists, "a failing batch registers nothing")
}
