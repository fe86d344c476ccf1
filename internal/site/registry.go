// Package site holds the pluggable task modules a session can run. A
// module validates and normalizes its parameters before execution, so a
// malformed task fails fast with a configuration error instead of
// half-running.
package site

import (
	"context"

	"github.com/xkilldash9x/wayfarer/api/schemas"
	"github.com/xkilldash9x/wayfarer/internal/session"
)

// Params is the raw key/value parameter bag a task arrives with.
type Params map[string]string

// Result is the structured outcome of one module run.
type Result struct {
	Module     string                    `json:"module"`
	Extraction *schemas.ExtractionResult `json:"extraction,omitempty"`
	Details    map[string]string         `json:"details,omitempty"`
}

// Module is one executable task type.
type Module interface {
	// Name is the stable identifier tasks refer to.
	Name() string
	// ValidateParams rejects parameter bags the module cannot run.
	ValidateParams(p Params) error
	// NormalizeParams fills defaults and canonicalizes values. It runs
	// after validation and must not fail.
	NormalizeParams(p Params) Params
	// Execute runs the task against the session.
	Execute(ctx context.Context, s *session.Session, p Params) (*Result, error)
}

// Registry maps module names to implementations. It is a plain value
// constructed at the composition root, not process-global state, and it
// remembers registration order so listings are deterministic.
type Registry struct {
	modules map[string]Module
	order   []string
}

func NewRegistry(modules ...Module) *Registry {
	r := &Registry{modules: make(map[string]Module, len(modules))}
	for _, m := range modules {
		r.Register(m)
	}
	return r
}

// Register adds a module, replacing any earlier one with the same name.
func (r *Registry) Register(m Module) {
	name := m.Name()
	if _, exists := r.modules[name]; !exists {
		r.order = append(r.order, name)
	}
	r.modules[name] = m
}

// Get returns the named module or a configuration error.
func (r *Registry) Get(name string) (Module, error) {
	m, ok := r.modules[name]
	if !ok {
		return nil, schemas.NewError(schemas.ErrCodeConfiguration,
			"no site module registered under %q", name)
	}
	return m, nil
}

// Names lists registered modules in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Run validates, normalizes, and executes a task in one call.
func (r *Registry) Run(ctx context.Context, s *session.Session, name string, p Params) (*Result, error) {
	m, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := m.ValidateParams(p); err != nil {
		return nil, err
	}
	return m.Execute(ctx, s, m.NormalizeParams(p))
}
