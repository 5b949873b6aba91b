package workflow

import (
	"fmt"
	"iter"
	"regexp"
)

var stateNameRe = regexp.MustCompile(`^\w+$`)

// State is a single named node in a workflow graph.
//
// States are created by DefinitionBuilder.Build and are immutable afterwards.
// Two states are the same state only when they are the same object: a State
// with a matching name declared in another workflow (or a replacement
// declared in a derived workflow) is a different state. Name-based lookup is
// a separate operation, see StateList.Get.
type State struct {
	name  string
	title string
}

func newState(name, title string) (*State, error) {
	if !stateNameRe.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStateName, name)
	}

	if title == "" {
		title = name
	}

	return &State{name: name, title: title}, nil
}

// Name returns the state's identifier.
func (s *State) Name() string {
	return s.name
}

// Title returns the human-readable title of the state.
func (s *State) Title() string {
	return s.title
}

func (s *State) String() string {
	return s.name
}

// StateList is an ordered, name-keyed collection of states. Iteration yields
// states in declaration order, which is the canonical enumeration order of
// the workflow.
type StateList struct {
	states map[string]*State
	order  []string
}

func newStateList(states []*State) *StateList {
	list := &StateList{
		states: make(map[string]*State, len(states)),
		order:  make([]string, 0, len(states)),
	}

	for _, state := range states {
		list.states[state.name] = state
		list.order = append(list.order, state.name)
	}

	return list
}

// Get returns the state declared under name.
func (l *StateList) Get(name string) (*State, bool) {
	state, ok := l.states[name]

	return state, ok
}

// Contains reports whether state is one of the declared states. Membership is
// by object identity: a distinct State with the same name does not count.
func (l *StateList) Contains(state *State) bool {
	if state == nil {
		return false
	}

	declared, ok := l.states[state.name]

	return ok && declared == state
}

// ContainsName reports whether a state is declared under name.
func (l *StateList) ContainsName(name string) bool {
	_, ok := l.states[name]

	return ok
}

// Len returns the number of declared states.
func (l *StateList) Len() int {
	return len(l.states)
}

// All returns the states in declaration order. The sequence is finite and
// restartable: each call starts a fresh pass.
func (l *StateList) All() iter.Seq[*State] {
	return func(yield func(*State) bool) {
		for _, name := range l.order {
			if !yield(l.states[name]) {
				return
			}
		}
	}
}
