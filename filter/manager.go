package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/s0up4200/spiractl/spira"
)

// Manager holds named filter presets
type Manager struct {
	compiler Compiler
	filters  map[string]CompiledFilter
	mu       sync.RWMutex
}

// NewManager creates a new filter manager with its own cached compiler
func NewManager() *Manager {
	return &Manager{
		compiler: NewExprCompiler(WithCache(100)),
		filters:  make(map[string]CompiledFilter),
	}
}

func (m *Manager) compile(expression string) (CompiledFilter, error) {
	return compileExpression(m.compiler, expression)
}

// RegisterFilter registers a new preset or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[strings.ToLower(name)] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers multiple presets at once; nothing is registered
// if any of them fails to compile
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	// Compile all filters first
	for name, expr := range filters {
		filter, err := m.compile(expr)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[strings.ToLower(name)] = filter
	}

	// If all compiled successfully, register them
	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// GetFilter returns a compiled preset by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[strings.ToLower(name)]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns all registered preset names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve returns the preset called nameOrExpression, or compiles it as an
// expression when no such preset exists
func (m *Manager) Resolve(nameOrExpression string) (CompiledFilter, error) {
	if filter, ok := m.GetFilter(strings.TrimSpace(nameOrExpression)); ok {
		return filter, nil
	}
	return m.compile(nameOrExpression)
}

// Preset applies a registered preset to requirements
func (m *Manager) Preset(name string, requirements []spira.Requirement) ([]spira.Requirement, error) {
	filter, exists := m.GetFilter(name)
	if !exists {
		return nil, &UnknownPresetError{Name: name}
	}
	return Apply(filter, requirements), nil
}
