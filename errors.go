package workflow

import (
	"errors"
	"fmt"
)

// Definition-time errors. Building a Definition or a Schema fails loudly
// with one of these; a failed build never yields a partially usable value.
var (
	// ErrInvalidStateName indicates a state name with characters outside [A-Za-z0-9_].
	ErrInvalidStateName = errors.New("invalid state name")
	// ErrNoStates indicates a workflow declared without any state.
	ErrNoStates = errors.New("workflow requires at least one state")
	// ErrInitialStateRequired indicates a workflow declared without an initial state.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrInitialStateNotFound indicates an initial state name that resolves to no declared state.
	ErrInitialStateNotFound = errors.New("initial state does not exist")
	// ErrTransitionNameRequired indicates a transition declared without a name.
	ErrTransitionNameRequired = errors.New("transition name is required")
	// ErrTransitionSourceRequired indicates a transition declared without source states.
	ErrTransitionSourceRequired = errors.New("transition requires at least one source state")
	// ErrUnknownState indicates a state name that resolves to no declared state.
	ErrUnknownState = errors.New("unknown state")
	// ErrUnknownTransition indicates a transition name that resolves to no declared transition.
	ErrUnknownTransition = errors.New("unknown transition")
	// ErrUnknownField indicates a field name with no workflow attached.
	ErrUnknownField = errors.New("no workflow attached to field")
	// ErrDefinitionRequired indicates a nil Definition passed to Attach.
	ErrDefinitionRequired = errors.New("workflow definition is required")
	// ErrFieldRequired indicates an empty field name passed to Attach.
	ErrFieldRequired = errors.New("field name is required")
	// ErrImplementationConflict indicates two different bodies claiming the same transition.
	ErrImplementationConflict = errors.New("conflicting transition implementation")
	// ErrAmbiguousTransition indicates a transition name present in more than one
	// attached workflow, used without an explicit field.
	ErrAmbiguousTransition = errors.New("transition name is ambiguous across fields")
	// ErrBodyRequired indicates a nil body passed to Implement.
	ErrBodyRequired = errors.New("transition body is required")
)

// Runtime errors. ErrInvalidTransition and ErrForbiddenTransition both wrap
// ErrTransitionAborted, so errors.Is(err, ErrTransitionAborted) matches any
// aborted transition attempt. In every abort path the instance state is
// guaranteed unchanged.
var (
	// ErrTransitionAborted is the general abort condition. Return it (or an
	// error wrapping it) from a before hook or a transition body to cancel
	// the transition; the error propagates to the caller.
	ErrTransitionAborted = errors.New("transition aborted")

	// ErrInvalidTransition indicates the current state is not among the
	// transition's allowed sources.
	ErrInvalidTransition = fmt.Errorf("%w: not available from current state", ErrTransitionAborted)

	// ErrForbiddenTransition indicates a check hook rejected the transition.
	ErrForbiddenTransition = fmt.Errorf("%w: forbidden by pre-transition check", ErrTransitionAborted)

	// ErrAbortSilently cancels a transition without surfacing an error.
	// Return it from a before hook or a transition body: the state is left
	// unchanged and Apply returns (nil, nil).
	ErrAbortSilently = errors.New("transition aborted silently")
)

// InvalidTransitionError reports a transition attempted from a state outside
// its allowed sources.
type InvalidTransitionError struct {
	Workflow   string
	Transition string
	State      string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %q is not available from state %q", e.Transition, e.State)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ForbiddenTransitionError reports a transition rejected by a check hook.
type ForbiddenTransitionError struct {
	Workflow   string
	Transition string
}

func (e *ForbiddenTransitionError) Error() string {
	return fmt.Sprintf("transition %q was forbidden by a pre-transition check", e.Transition)
}

func (e *ForbiddenTransitionError) Unwrap() error {
	return ErrForbiddenTransition
}
