package workflow

import "fmt"

// StateDef declares a state as a name/title pair. An empty title defaults to
// the name.
type StateDef struct {
	Name  string
	Title string
}

// TransitionDef declares a transition: a name, one or more source state
// names, and a target state name.
type TransitionDef struct {
	Name    string
	Sources []string
	Target  string
}

// Definition is a finished workflow definition: an ordered set of states, an
// ordered set of transitions, and one initial state. Definitions are built
// once, typically at package initialization, and are immutable and safe for
// concurrent use afterwards.
type Definition struct {
	name        string
	states      *StateList
	transitions *TransitionList
	initial     *State
	logger      Logger
}

// Name returns the workflow's name.
func (d *Definition) Name() string {
	return d.name
}

// States returns the workflow's states.
func (d *Definition) States() *StateList {
	return d.states
}

// Transitions returns the workflow's transitions.
func (d *Definition) Transitions() *TransitionList {
	return d.transitions
}

// InitialState returns the state new instances start in.
func (d *Definition) InitialState() *State {
	return d.initial
}

// DefinitionBuilder assembles a workflow definition from state and transition
// declarations. Declarations are validated and resolved in Build.
type DefinitionBuilder struct {
	name        string
	parent      *Definition
	states      []StateDef
	transitions []TransitionDef
	initial     string
	logger      Logger
}

// NewDefinition creates a builder for a workflow definition with the given
// name.
func NewDefinition(name string) *DefinitionBuilder {
	return &DefinitionBuilder{name: name}
}

// DeriveFrom bases the definition on parent. The parent's states and
// transitions are carried over first; declarations on this builder with a
// matching name replace the parent's in place, keeping the original position,
// and new names are appended. The parent's initial state and logger carry
// over unless overridden.
func (b *DefinitionBuilder) DeriveFrom(parent *Definition) *DefinitionBuilder {
	b.parent = parent

	return b
}

// AddState declares a state. Declaring a name twice replaces the earlier
// declaration in place.
func (b *DefinitionBuilder) AddState(name, title string) *DefinitionBuilder {
	b.states = append(b.states, StateDef{Name: name, Title: title})

	return b
}

// AddStates declares several states in order.
func (b *DefinitionBuilder) AddStates(defs ...StateDef) *DefinitionBuilder {
	b.states = append(b.states, defs...)

	return b
}

// AddTransition declares a transition from the given source states to target.
// Declaring a name twice replaces the earlier declaration in place.
func (b *DefinitionBuilder) AddTransition(name string, sources []string, target string) *DefinitionBuilder {
	b.transitions = append(b.transitions, TransitionDef{Name: name, Sources: sources, Target: target})

	return b
}

// AddTransitions declares several transitions in order.
func (b *DefinitionBuilder) AddTransitions(defs ...TransitionDef) *DefinitionBuilder {
	b.transitions = append(b.transitions, defs...)

	return b
}

// Initial sets the state new instances start in.
func (b *DefinitionBuilder) Initial(name string) *DefinitionBuilder {
	b.initial = name

	return b
}

// Logger sets a logger used for transitions of this workflow, overriding the
// logger of any schema the workflow is attached to.
func (b *DefinitionBuilder) Logger(logger Logger) *DefinitionBuilder {
	b.logger = logger

	return b
}

// Build resolves and validates the declarations into an immutable Definition.
//
// The merge with a parent definition is a single pass: states override by
// name in place, then every transition (inherited or declared) is re-resolved
// against the final state list, so transition sources and targets always
// reference states of this definition, including replacements.
func (b *DefinitionBuilder) Build() (*Definition, error) {
	states, err := b.buildStates()
	if err != nil {
		return nil, err
	}

	if len(states) == 0 {
		return nil, wrapDefinitionError(b.name, ErrNoStates)
	}

	stateList := newStateList(states)

	transitions, err := b.buildTransitions(stateList)
	if err != nil {
		return nil, err
	}

	initial, err := b.resolveInitial(stateList)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil && b.parent != nil {
		logger = b.parent.logger
	}

	return &Definition{
		name:        b.name,
		states:      stateList,
		transitions: newTransitionList(transitions),
		initial:     initial,
		logger:      logger,
	}, nil
}

// MustBuild is like Build but panics on error. Intended for definitions
// assembled at package initialization.
func (b *DefinitionBuilder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}

	return def
}

func (b *DefinitionBuilder) buildStates() ([]*State, error) {
	var states []*State

	if b.parent != nil {
		for state := range b.parent.states.All() {
			states = append(states, state)
		}
	}

	for _, def := range b.states {
		state, err := newState(def.Name, def.Title)
		if err != nil {
			return nil, wrapDefinitionError(b.name, err)
		}

		if i := stateIndex(states, def.Name); i >= 0 {
			states[i] = state
		} else {
			states = append(states, state)
		}
	}

	return states, nil
}

func (b *DefinitionBuilder) buildTransitions(states *StateList) ([]*Transition, error) {
	// Merge raw declarations first: inherited transitions by name and
	// position, then overrides and additions from this builder.
	var defs []TransitionDef

	if b.parent != nil {
		for tr := range b.parent.transitions.All() {
			def := TransitionDef{Name: tr.name, Target: tr.target.name}
			for _, src := range tr.sources {
				def.Sources = append(def.Sources, src.name)
			}

			defs = append(defs, def)
		}
	}

	for _, def := range b.transitions {
		if i := transitionDefIndex(defs, def.Name); i >= 0 {
			defs[i] = def
		} else {
			defs = append(defs, def)
		}
	}

	transitions := make([]*Transition, 0, len(defs))

	for _, def := range defs {
		tr, err := b.resolveTransition(def, states)
		if err != nil {
			return nil, err
		}

		transitions = append(transitions, tr)
	}

	return transitions, nil
}

func (b *DefinitionBuilder) resolveTransition(def TransitionDef, states *StateList) (*Transition, error) {
	if def.Name == "" {
		return nil, wrapDefinitionError(b.name, ErrTransitionNameRequired)
	}

	if len(def.Sources) == 0 {
		return nil, transitionError(b.name, def.Name, ErrTransitionSourceRequired, "")
	}

	sources := make([]*State, 0, len(def.Sources))

	for _, name := range def.Sources {
		state, ok := states.Get(name)
		if !ok {
			return nil, transitionError(b.name, def.Name, ErrUnknownState, name)
		}

		sources = append(sources, state)
	}

	target, ok := states.Get(def.Target)
	if !ok {
		return nil, transitionError(b.name, def.Name, ErrUnknownState, def.Target)
	}

	return &Transition{name: def.Name, sources: sources, target: target}, nil
}

func (b *DefinitionBuilder) resolveInitial(states *StateList) (*State, error) {
	name := b.initial
	if name == "" && b.parent != nil && b.parent.initial != nil {
		name = b.parent.initial.name
	}

	if name == "" {
		return nil, wrapDefinitionError(b.name, ErrInitialStateRequired)
	}

	initial, ok := states.Get(name)
	if !ok {
		return nil, wrapDefinitionError(b.name, fmt.Errorf("%w: %q", ErrInitialStateNotFound, name))
	}

	return initial, nil
}

func stateIndex(states []*State, name string) int {
	for i, state := range states {
		if state.name == name {
			return i
		}
	}

	return -1
}

func transitionDefIndex(defs []TransitionDef, name string) int {
	for i, def := range defs {
		if def.Name == name {
			return i
		}
	}

	return -1
}

func wrapDefinitionError(workflow string, err error) error {
	return fmt.Errorf("workflow %q: %w", workflow, err)
}

func transitionError(workflow, transition string, err error, name string) error {
	if name == "" {
		return fmt.Errorf("workflow %q, transition %q: %w", workflow, transition, err)
	}

	return fmt.Errorf("workflow %q, transition %q: %w: %q", workflow, transition, err, name)
}
