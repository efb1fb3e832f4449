package filter

import (
	"github.com/s0up4200/spiractl/spira"
)

// compileExpression converts shorthand syntax when present and compiles the
// result with compiler
func compileExpression(compiler Compiler, expression string) (CompiledFilter, error) {
	if IsShorthand(expression) {
		converted, err := ConvertShorthand(expression)
		if err != nil {
			return nil, &CompilationError{Expression: expression, Reason: "invalid shorthand", Err: err}
		}
		expression = converted
	}
	return compiler.Compile(expression)
}

// Apply returns the requirements matching f, in their original order
func Apply(f Filter, requirements []spira.Requirement) []spira.Requirement {
	matches := make([]spira.Requirement, 0, len(requirements))
	for _, req := range requirements {
		if f.Evaluate(req) {
			matches = append(matches, req)
		}
	}
	return matches
}
