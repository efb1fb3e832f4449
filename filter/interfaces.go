package filter

import (
	"github.com/s0up4200/spiractl/spira"
)

// Filter defines the basic interface for requirement filters
type Filter interface {
	// Evaluate checks if a requirement matches the filter criteria
	Evaluate(req spira.Requirement) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the expr expression the filter was compiled from
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
