// Package registry holds the two disjoint step-constructor tables the step
// factory consults when a StepSpec's `uses` field needs resolving: actions
// (named step constructors such as the built-in mpi and diff steps) and
// functions (steps implemented directly in Go). Both tables are looked up by
// the exact `uses` string. Registration is last-write-wins, mirroring the teacher's
// tools.Registry (packages/core/tools/registry.go), simplified down from its
// priority-ordered parser list to the two flat name tables this domain needs.
package registry

import (
	"context"
	"sync"

	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

// Step is the narrow surface the registry needs from a constructed step. It
// is satisfied structurally by stepexec.Step so this package never imports
// stepexec, avoiding an import cycle with the factory that calls into it.
type Step interface {
	Command() (string, error)
	Run(ctx context.Context) (int, error)
	NumCores() int
	TimeoutMinutes() float64
}

// Constructor builds a Step from a StepSpec and the job Context it will run
// under (matrix bindings, prior step outputs, env overlay).
type Constructor func(spec *workflowfile.StepSpec, ctx *runctx.Context) (Step, error)

// Registry is the process-wide table of action and function constructors.
// Safe for concurrent registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	actions   map[string]Constructor
	functions map[string]Constructor
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		actions:   make(map[string]Constructor),
		functions: make(map[string]Constructor),
	}
}

// RegisterAction adds (or replaces) the constructor for an action name, the
// namespace a step's `uses` value is resolved against first.
func (r *Registry) RegisterAction(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = ctor
}

// RegisterFunction adds (or replaces) the constructor for a function-step
// name, the namespace consulted after the action table misses.
func (r *Registry) RegisterFunction(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[name] = ctor
}

// LookupAction returns the action constructor for name, if any.
func (r *Registry) LookupAction(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.actions[name]
	return c, ok
}

// LookupFunction returns the function constructor for name, if any.
func (r *Registry) LookupFunction(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.functions[name]
	return c, ok
}

// ActionNames returns the registered action names, for `kuristo doctor`
// diagnostics.
func (r *Registry) ActionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	return names
}

// FunctionNames returns the registered function-step names.
func (r *Registry) FunctionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	return names
}
