package filter

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/spiractl/spira"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	custom     map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.custom, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		custom: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	custom map[string]any
	cache  *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	// Check cache if enabled
	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// The zero requirement gives the checker every name and type
	env := createRuntimeEnvironment(spira.Requirement{}, c.custom)
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		custom:     c.custom,
	}

	// Cache if enabled
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a requirement. Runtime errors count
// as no match.
func (f *exprFilter) Evaluate(req spira.Requirement) bool {
	result, err := expr.Run(f.program, createRuntimeEnvironment(req, f.custom))
	if err != nil {
		return false
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// addHelperFunctions adds the requirement-independent helpers
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now
}

// createRuntimeEnvironment exposes one requirement to an expression
func createRuntimeEnvironment(req spira.Requirement, custom map[string]any) map[string]any {
	env := make(map[string]any, 48)
	addHelperFunctions(env)
	maps.Copy(env, custom)

	importance, hasImportance := req.Importance()
	owner, hasOwner := req.OwnerID()
	release, _ := req.ReleaseID()
	component, _ := req.ComponentID()
	description, _ := req.Description()
	version, _ := req.ReleaseVersionNumber()
	indent, _ := req.IndentLevel()
	props := req.CustomProperties()

	importanceName := ""
	if hasImportance {
		importanceName = importance.String()
	}

	// Requirement-specific helpers
	env["hasStatus"] = func(names ...string) bool {
		for _, name := range names {
			if s, err := spira.ParseRequirementStatus(name); err == nil && s == req.Status() {
				return true
			}
		}
		return false
	}
	env["hasImportance"] = func(name string) bool {
		i, err := spira.ParseRequirementImportance(name)
		return err == nil && hasImportance && i == importance
	}
	env["ownedBy"] = func(userID int) bool {
		return hasOwner && owner == int64(userID)
	}
	env["isUnassigned"] = func() bool {
		return !hasOwner
	}
	env["hasCustomProperty"] = func(name string) bool {
		v, ok := props[name]
		return ok && v != nil
	}
	env["customProperty"] = func(name string) string {
		v, ok := props[name]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}

	// Direct requirement properties
	env["Requirement"] = req
	env["ID"] = int(req.ID())
	env["ProjectID"] = int(req.ProjectID())
	env["Name"] = req.Name()
	env["Status"] = req.Status().String()
	env["Importance"] = importanceName
	env["AuthorID"] = int(req.AuthorID())
	env["OwnerID"] = int(owner)
	env["ReleaseID"] = int(release)
	env["ComponentID"] = int(component)
	env["Description"] = description
	env["CreationDate"] = req.CreationDate()
	env["LastUpdateDate"] = req.LastUpdateDate()
	env["Summary"] = req.Summary()
	env["ReleaseVersionNumber"] = version
	env["IndentLevel"] = indent
	env["Depth"] = len(indent) / 3

	return env
}
