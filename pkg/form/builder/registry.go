package builder

import (
	"fmt"
	"slices"
	"sync"

	"github.com/sitegear/sitegear/pkg/form"
)

// DefaultNamespace holds the built-in field types, constraints and conditions.
const DefaultNamespace = "default"

// Kind selects which factory table a lookup or search order applies to.
type Kind int

const (
	KindField Kind = iota
	KindConstraint
	KindCondition
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindConstraint:
		return "constraint"
	case KindCondition:
		return "condition"
	}
	return "unknown"
}

// FieldSpec is the input to a FieldFactory.
type FieldSpec struct {
	Definition map[string]any
	Name       string
	Options    []form.Option
}

// FieldFactory creates a field from its definition.
type FieldFactory func(spec FieldSpec) (*form.Field, error)

// ConstraintFactory creates a constraint from its options. A scalar options
// value in the definition arrives under the "default" key.
type ConstraintFactory func(options map[string]any) (form.Constraint, error)

// ConditionFactory creates a condition over field and values.
type ConditionFactory func(field string, values []string) (form.Condition, error)

type namespace struct {
	fields      map[string]FieldFactory
	constraints map[string]ConstraintFactory
	conditions  map[string]ConditionFactory
}

func newNamespace() *namespace {
	return &namespace{
		fields:      make(map[string]FieldFactory),
		constraints: make(map[string]ConstraintFactory),
		conditions:  make(map[string]ConditionFactory),
	}
}

// Registry maps names to factories, grouped into namespaces and searched in a
// configurable order. It is safe for concurrent use.
type Registry struct {
	namespaces map[string]*namespace
	search     map[Kind][]string
	mu         sync.RWMutex
}

// NewRegistry returns a registry with the default namespace populated and
// every search order set to just that namespace.
func NewRegistry() *Registry {
	r := &Registry{
		namespaces: make(map[string]*namespace),
		search: map[Kind][]string{
			KindField:      {DefaultNamespace},
			KindConstraint: {DefaultNamespace},
			KindCondition:  {DefaultNamespace},
		},
	}
	registerDefaults(r)
	return r
}

func (r *Registry) ns(name string) *namespace {
	n, ok := r.namespaces[name]
	if !ok {
		n = newNamespace()
		r.namespaces[name] = n
	}
	return n
}

// RegisterField adds a field type to a namespace, creating it if needed.
func (r *Registry) RegisterField(ns, name string, f FieldFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ns(ns).fields[StudlyCaps(name)] = f
}

// RegisterConstraint adds a constraint to a namespace, creating it if needed.
func (r *Registry) RegisterConstraint(ns, name string, f ConstraintFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ns(ns).constraints[StudlyCaps(name)] = f
}

// RegisterCondition adds a condition to a namespace, creating it if needed.
func (r *Registry) RegisterCondition(ns, name string, f ConditionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ns(ns).conditions[StudlyCaps(name)] = f
}

// SetSearchOrder sets the namespaces searched, in order, for unqualified names of kind.
func (r *Registry) SetSearchOrder(kind Kind, namespaces ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.search[kind] = slices.Clone(namespaces)
}

// SearchOrder returns the namespaces searched for kind.
func (r *Registry) SearchOrder(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.search[kind])
}

// candidates returns the namespaces to try for ref and the StudlyCaps key.
// Caller must hold the read lock.
func (r *Registry) candidates(kind Kind, ref string) ([]string, string, error) {
	ns, name := splitClass(ref)
	key := StudlyCaps(name)
	if ns == "" {
		return r.search[kind], key, nil
	}
	if _, ok := r.namespaces[ns]; !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownNamespace, ns)
	}
	return []string{ns}, key, nil
}

// Field resolves a field type reference.
func (r *Registry) Field(ref string) (FieldFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spaces, key, err := r.candidates(KindField, ref)
	if err != nil {
		return nil, err
	}
	for _, s := range spaces {
		if n, ok := r.namespaces[s]; ok {
			if f, ok := n.fields[key]; ok {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFieldType, ref)
}

// Constraint resolves a constraint reference.
func (r *Registry) Constraint(ref string) (ConstraintFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spaces, key, err := r.candidates(KindConstraint, ref)
	if err != nil {
		return nil, err
	}
	for _, s := range spaces {
		if n, ok := r.namespaces[s]; ok {
			if f, ok := n.constraints[key]; ok {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownConstraint, ref)
}

// Condition resolves a condition reference.
func (r *Registry) Condition(ref string) (ConditionFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spaces, key, err := r.candidates(KindCondition, ref)
	if err != nil {
		return nil, err
	}
	for _, s := range spaces {
		if n, ok := r.namespaces[s]; ok {
			if f, ok := n.conditions[key]; ok {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCondition, ref)
}
