package workflow

import (
	"context"
	"fmt"
	"iter"
)

// Instance is one workflow-enabled object: an independent state slot per
// attached field, mutated only through successful transitions. Instance
// values are not safe for concurrent transition invocations; callers that
// share an instance across goroutines must serialize access externally.
type Instance struct {
	schema *Schema
	states map[string]*State
}

// New creates an instance with every field set to its workflow's initial
// state.
func (s *Schema) New() *Instance {
	states := make(map[string]*State, len(s.order))
	for _, field := range s.order {
		states[field] = s.fields[field].def.initial
	}

	return &Instance{schema: s, states: states}
}

// Schema returns the schema the instance was created from.
func (in *Instance) Schema() *Schema {
	return in.schema
}

// State returns the current state of the workflow attached at field.
func (in *Instance) State(field string) (StateValue, error) {
	binding, ok := in.schema.fields[field]
	if !ok {
		return StateValue{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return StateValue{state: in.states[field], def: binding.def}, nil
}

// MustState is like State but panics on an unknown field.
func (in *Instance) MustState(field string) StateValue {
	value, err := in.State(field)
	if err != nil {
		panic(err)
	}

	return value
}

// SetState writes a field's state directly, bypassing the transition
// protocol. The value must name a state of the attached workflow: a state
// name, *State, or StateValue. Intended for restoring persisted state;
// ordinary state changes go through Apply.
func (in *Instance) SetState(field string, value any) error {
	binding, ok := in.schema.fields[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	name, err := stateName(value)
	if err != nil {
		return err
	}

	state, ok := binding.def.states.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q is not a state of workflow %q", ErrUnknownState, name, binding.def.name)
	}

	in.states[field] = state

	return nil
}

// Apply runs the named transition with the given arguments and returns the
// body's result. The transition name must occur in exactly one attached
// workflow; use ApplyField when several workflows share the name.
func (in *Instance) Apply(ctx context.Context, name string, args ...any) (any, error) {
	field, err := in.schema.resolveDeclField(name, "")
	if err != nil {
		return nil, err
	}

	return in.ApplyField(ctx, field, name, args...)
}

// ApplyField runs the named transition of the workflow attached at field.
func (in *Instance) ApplyField(ctx context.Context, field, name string, args ...any) (any, error) {
	im, err := in.lookup(field, name)
	if err != nil {
		return nil, err
	}

	return im.invoke(ctx, in, args)
}

// IsAvailable reports whether the named transition may run right now: the
// current state is one of its sources and every applicable check hook
// passes. It never mutates state.
func (in *Instance) IsAvailable(ctx context.Context, name string) bool {
	field, err := in.schema.resolveDeclField(name, "")
	if err != nil {
		return false
	}

	return in.IsAvailableField(ctx, field, name)
}

// IsAvailableField is IsAvailable for an explicit field.
func (in *Instance) IsAvailableField(ctx context.Context, field, name string) bool {
	im, err := in.lookup(field, name)
	if err != nil {
		return false
	}

	return im.preChecks(ctx, in, in.states[field]) == nil
}

func (in *Instance) lookup(field, name string) (*implementation, error) {
	binding, ok := in.schema.fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	im, ok := binding.impls[name]
	if !ok {
		return nil, fmt.Errorf("field %q: %w: %q", field, ErrUnknownTransition, name)
	}

	return im, nil
}

func stateName(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case *State:
		return v.name, nil
	case StateValue:
		return v.Name(), nil
	default:
		return "", fmt.Errorf("%w: cannot resolve state from %T", ErrUnknownState, value)
	}
}

// StateValue is a read of one field's current state, bound to the owning
// workflow so it can answer queries about the state's place in the graph.
type StateValue struct {
	state *State
	def   *Definition
}

// Name returns the state's identifier.
func (v StateValue) Name() string {
	return v.state.name
}

// Title returns the state's human-readable title.
func (v StateValue) Title() string {
	return v.state.title
}

// State returns the underlying declared state.
func (v StateValue) State() *State {
	return v.state
}

// Is reports whether the current state has the given name.
func (v StateValue) Is(name string) bool {
	return v.state.name == name
}

// Equal compares the value against another StateValue, a *State (by object
// identity), or a raw state name.
func (v StateValue) Equal(other any) bool {
	switch o := other.(type) {
	case StateValue:
		return v.state == o.state
	case *State:
		return v.state == o
	case string:
		return v.state.name == o
	default:
		return false
	}
}

// Transitions returns the workflow's transitions available from this state,
// in declaration order. The sequence is restartable.
func (v StateValue) Transitions() iter.Seq[*Transition] {
	return v.def.transitions.AvailableFrom(v.state)
}

func (v StateValue) String() string {
	return v.state.name
}
