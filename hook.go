package workflow

import (
	"context"
	"reflect"
	"slices"
)

// HookKind identifies the point in the transition lifecycle a hook fires at.
type HookKind int

const (
	// HookBefore hooks run before the transition body, together with
	// HookOnLeave hooks in one priority-sorted pass.
	HookBefore HookKind = iota
	// HookAfter hooks run after the state mutation, together with
	// HookOnEnter hooks in one priority-sorted pass.
	HookAfter
	// HookCheck hooks run as pre-transition checks; a false return forbids
	// the transition.
	HookCheck
	// HookOnEnter hooks fire when a transition enters one of the bound states.
	HookOnEnter
	// HookOnLeave hooks fire when a transition leaves one of the bound states.
	HookOnLeave
)

func (k HookKind) String() string {
	switch k {
	case HookBefore:
		return "before"
	case HookAfter:
		return "after"
	case HookCheck:
		return "check"
	case HookOnEnter:
		return "on_enter"
	case HookOnLeave:
		return "on_leave"
	default:
		return "unknown"
	}
}

// Wildcard binds a hook to every transition or state.
const Wildcard = "*"

// BeforeFunc is the signature for before and on-leave hooks. It receives the
// instance and the original call arguments. Returning ErrAbortSilently
// cancels the transition without an error; any other non-nil error cancels it
// and propagates to the caller. No state mutation happens in either case.
type BeforeFunc func(ctx context.Context, inst *Instance, args ...any) error

// CheckFunc is the signature for check hooks. All applicable check functions
// must return true for the transition to proceed.
type CheckFunc func(ctx context.Context, inst *Instance) bool

// AfterFunc is the signature for after and on-enter hooks. It receives the
// instance, the transition body's result, and the original call arguments.
// The state mutation has already happened; a non-nil error propagates to the
// caller but does not undo it.
type AfterFunc func(ctx context.Context, inst *Instance, result any, args ...any) error

// Hook binds a callback to a point in the transition lifecycle, scoped to a
// set of transition or state names (empty means all, via Wildcard).
//
// Within one dispatch pass hooks fire in descending priority order; hooks of
// equal priority fire in declaration order within their kind, with before
// hooks ahead of on-leave hooks and after hooks ahead of on-enter hooks.
// The order is total, so two runs always fire hooks in the same sequence.
type Hook struct {
	kind     HookKind
	priority int
	names    []string
	field    string

	before BeforeFunc
	check  CheckFunc
	after  AfterFunc
}

// BeforeTransition declares a hook that runs before the named transitions.
// With no names the hook applies to all transitions.
func BeforeTransition(fn BeforeFunc, names ...string) *Hook {
	return &Hook{kind: HookBefore, names: normalizeNames(names), before: fn}
}

// AfterTransition declares a hook that runs after the named transitions.
func AfterTransition(fn AfterFunc, names ...string) *Hook {
	return &Hook{kind: HookAfter, names: normalizeNames(names), after: fn}
}

// TransitionCheck declares a pre-transition check for the named transitions.
// A false return from any applicable check forbids the transition.
func TransitionCheck(fn CheckFunc, names ...string) *Hook {
	return &Hook{kind: HookCheck, names: normalizeNames(names), check: fn}
}

// OnEnterState declares a hook that runs when a transition enters one of the
// named states.
func OnEnterState(fn AfterFunc, names ...string) *Hook {
	return &Hook{kind: HookOnEnter, names: normalizeNames(names), after: fn}
}

// OnLeaveState declares a hook that runs when a transition leaves one of the
// named states.
func OnLeaveState(fn BeforeFunc, names ...string) *Hook {
	return &Hook{kind: HookOnLeave, names: normalizeNames(names), before: fn}
}

func normalizeNames(names []string) []string {
	if len(names) == 0 {
		return []string{Wildcard}
	}

	return slices.Clone(names)
}

// Priority sets the hook's priority. Higher values run first; the default
// is 0. Returns the hook for chaining.
func (h *Hook) Priority(priority int) *Hook {
	h.priority = priority

	return h
}

// Field restricts the hook to the workflow attached at the given field when
// a type has several workflows attached. An empty field (the default) applies
// the hook to every attached workflow.
func (h *Hook) Field(field string) *Hook {
	h.field = field

	return h
}

// Kind returns the lifecycle point the hook fires at.
func (h *Hook) Kind() HookKind {
	return h.kind
}

// Equal reports whether two hooks are the same declaration: same kind,
// priority, bound names, and callback identity.
func (h *Hook) Equal(other *Hook) bool {
	if other == nil {
		return false
	}

	return h.kind == other.kind &&
		h.priority == other.priority &&
		h.field == other.field &&
		slices.Equal(h.names, other.names) &&
		h.funcPointer() == other.funcPointer()
}

func (h *Hook) funcPointer() uintptr {
	switch h.kind {
	case HookCheck:
		return reflect.ValueOf(h.check).Pointer()
	case HookAfter, HookOnEnter:
		return reflect.ValueOf(h.after).Pointer()
	case HookBefore, HookOnLeave:
		return reflect.ValueOf(h.before).Pointer()
	default:
		return 0
	}
}

func (h *Hook) wildcard() bool {
	return slices.Contains(h.names, Wildcard)
}

func (h *Hook) matchName(name string) bool {
	return slices.Contains(h.names, name)
}

// appliesTo reports whether the hook applies to the given transition.
//
// Before, after, and check hooks match on the transition name. On-enter hooks
// match on the transition's target state. On-leave hooks match on from when
// given; with a nil from the question is "could this hook ever fire for this
// transition", answered by matching any of its sources.
func (h *Hook) appliesTo(tr *Transition, from *State) bool {
	if h.wildcard() {
		return true
	}

	switch h.kind {
	case HookBefore, HookAfter, HookCheck:
		return h.matchName(tr.name)
	case HookOnEnter:
		return h.matchName(tr.target.name)
	case HookOnLeave:
		if from == nil {
			return slices.ContainsFunc(tr.sources, func(src *State) bool {
				return h.matchName(src.name)
			})
		}

		return h.matchName(from.name)
	default:
		return false
	}
}

// sortHooks orders hooks by descending priority. The sort is stable, so
// equal-priority hooks keep the order they were appended in, which is their
// declaration order.
func sortHooks(hooks []*Hook) {
	slices.SortStableFunc(hooks, func(a, b *Hook) int {
		return b.priority - a.priority
	})
}
