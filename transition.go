package workflow

import (
	"fmt"
	"iter"
	"slices"
)

// Transition is a named directed hyperedge of the workflow graph: one or more
// allowed source states and exactly one target state. Transitions are created
// by DefinitionBuilder.Build, which resolves source and target names against
// the workflow's StateList, and are immutable afterwards.
type Transition struct {
	name    string
	sources []*State
	target  *State
}

// Name returns the transition's identifier.
func (t *Transition) Name() string {
	return t.name
}

// Target returns the state the transition leads to.
func (t *Transition) Target() *State {
	return t.target
}

// Sources returns the allowed source states in declaration order.
func (t *Transition) Sources() []*State {
	return slices.Clone(t.sources)
}

// HasSource reports whether state is one of the transition's allowed sources.
// Membership is by object identity, not name.
func (t *Transition) HasSource(state *State) bool {
	return slices.Contains(t.sources, state)
}

func (t *Transition) String() string {
	names := make([]string, len(t.sources))
	for i, src := range t.sources {
		names[i] = src.name
	}

	return fmt.Sprintf("%s: %v -> %s", t.name, names, t.target.name)
}

// TransitionList is an ordered, name-keyed collection of transitions.
// Iteration yields transitions in declaration order.
type TransitionList struct {
	transitions map[string]*Transition
	order       []string
}

func newTransitionList(transitions []*Transition) *TransitionList {
	list := &TransitionList{
		transitions: make(map[string]*Transition, len(transitions)),
		order:       make([]string, 0, len(transitions)),
	}

	for _, tr := range transitions {
		list.transitions[tr.name] = tr
		list.order = append(list.order, tr.name)
	}

	return list
}

// Get returns the transition declared under name.
func (l *TransitionList) Get(name string) (*Transition, bool) {
	tr, ok := l.transitions[name]

	return tr, ok
}

// Contains reports whether tr is one of the declared transitions, by object
// identity.
func (l *TransitionList) Contains(tr *Transition) bool {
	if tr == nil {
		return false
	}

	declared, ok := l.transitions[tr.name]

	return ok && declared == tr
}

// ContainsName reports whether a transition is declared under name.
func (l *TransitionList) ContainsName(name string) bool {
	_, ok := l.transitions[name]

	return ok
}

// Len returns the number of declared transitions.
func (l *TransitionList) Len() int {
	return len(l.transitions)
}

// All returns the transitions in declaration order. The sequence is finite
// and restartable.
func (l *TransitionList) All() iter.Seq[*Transition] {
	return func(yield func(*Transition) bool) {
		for _, name := range l.order {
			if !yield(l.transitions[name]) {
				return
			}
		}
	}
}

// AvailableFrom returns the transitions whose sources contain state, in
// declaration order. Source membership is by object identity. The sequence is
// finite and restartable: iterating twice yields the same transitions.
func (l *TransitionList) AvailableFrom(state *State) iter.Seq[*Transition] {
	return func(yield func(*Transition) bool) {
		for _, name := range l.order {
			tr := l.transitions[name]
			if tr.HasSource(state) && !yield(tr) {
				return
			}
		}
	}
}
