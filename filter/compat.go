package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// shorthandRule rewrites one shorthand term into expr syntax
type shorthandRule struct {
	pattern *regexp.Regexp
	replace func(m []string) string
}

func negate(bang, expression string) string {
	if bang == "!" {
		return "not " + expression
	}
	return expression
}

var shorthandRules = []shorthandRule{
	// status:"completed" or status!:"obsolete"
	{
		pattern: regexp.MustCompile(`\bstatus(!?):"([^"]+)"`),
		replace: func(m []string) string { return negate(m[1], fmt.Sprintf(`hasStatus(%q)`, m[2])) },
	},
	// importance:"high" or importance!:"low"
	{
		pattern: regexp.MustCompile(`\bimportance(!?):"([^"]+)"`),
		replace: func(m []string) string { return negate(m[1], fmt.Sprintf(`hasImportance(%q)`, m[2])) },
	},
	// owner:12 or owner!:12
	{
		pattern: regexp.MustCompile(`\bowner(!?):(\d+)`),
		replace: func(m []string) string { return negate(m[1], fmt.Sprintf(`ownedBy(%s)`, m[2])) },
	},
	// name:"login"
	{
		pattern: regexp.MustCompile(`\bname(!?):"([^"]+)"`),
		replace: func(m []string) string { return negate(m[1], fmt.Sprintf(`contains(Name, %q)`, m[2])) },
	},
	// release:"1.0.0.0"
	{
		pattern: regexp.MustCompile(`\brelease(!?):"([^"]+)"`),
		replace: func(m []string) string { return negate(m[1], fmt.Sprintf(`ReleaseVersionNumber == %q`, m[2])) },
	},
	// property:"Custom_01"
	{
		pattern: regexp.MustCompile(`\bproperty(!?):"([^"]+)"`),
		replace: func(m []string) string { return negate(m[1], fmt.Sprintf(`hasCustomProperty(%q)`, m[2])) },
	},
	// summary:true
	{
		pattern: regexp.MustCompile(`\bsummary:(true|false)`),
		replace: func(m []string) string { return fmt.Sprintf(`Summary == %s`, m[1]) },
	},
	// created_before:"YYYY-MM-DD", created_after:, updated_before:, updated_after:
	{
		pattern: regexp.MustCompile(`\bcreated_(before|after):"(\d{4}-\d{2}-\d{2})"`),
		replace: func(m []string) string { return dateComparison("CreationDate", m[1], m[2]) },
	},
	{
		pattern: regexp.MustCompile(`\bupdated_(before|after):"(\d{4}-\d{2}-\d{2})"`),
		replace: func(m []string) string { return dateComparison("LastUpdateDate", m[1], m[2]) },
	},
	// stale:30 matches requirements untouched for more than 30 days
	{
		pattern: regexp.MustCompile(`\bstale:(\d+)`),
		replace: func(m []string) string { return fmt.Sprintf(`daysSince(LastUpdateDate) > %s`, m[1]) },
	},
}

func dateComparison(field, direction, date string) string {
	op := "<"
	if direction == "after" {
		op = ">"
	}
	return fmt.Sprintf(`%s %s parseDate(%q)`, field, op, date)
}

// ConvertShorthand converts the field:"value" shorthand syntax to expr syntax
func ConvertShorthand(shorthand string) (string, error) {
	if strings.TrimSpace(shorthand) == "" {
		return "", nil
	}

	// First, handle logical operators
	filter := strings.ReplaceAll(shorthand, " AND ", " and ")
	filter = strings.ReplaceAll(filter, " OR ", " or ")
	filter = strings.ReplaceAll(filter, "NOT ", "not ")

	for _, rule := range shorthandRules {
		filter = rule.pattern.ReplaceAllStringFunc(filter, func(match string) string {
			return rule.replace(rule.pattern.FindStringSubmatch(match))
		})
	}

	if leftover := shorthandTerm.FindString(filter); leftover != "" {
		return "", fmt.Errorf("unrecognised shorthand term %q", leftover)
	}

	return filter, nil
}

var shorthandTerm = regexp.MustCompile(`\b[a-z_]+!?:\S+`)

// IsShorthand checks if a filter uses the shorthand syntax
func IsShorthand(filter string) bool {
	for _, rule := range shorthandRules {
		if rule.pattern.MatchString(filter) {
			return true
		}
	}
	return false
}
