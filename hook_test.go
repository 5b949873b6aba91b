package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopBefore(context.Context, *Instance, ...any) error {
	return nil
}

func nopAfter(context.Context, *Instance, any, ...any) error {
	return nil
}

func allowCheck(context.Context, *Instance) bool {
	return true
}

func TestHookKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "before", HookBefore.String())
	assert.Equal(t, "after", HookAfter.String())
	assert.Equal(t, "check", HookCheck.String())
	assert.Equal(t, "on_enter", HookOnEnter.String())
	assert.Equal(t, "on_leave", HookOnLeave.String())
}

//nolint:funlen // Table covers the full applies-to matrix
func TestHookAppliesTo(t *testing.T) {
	t.Parallel()

	def := newTestDefinition(t)
	transitions := def.Transitions()
	states := def.States()

	foobar, _ := transitions.Get("foobar")
	gobaz, _ := transitions.Get("gobaz")
	foo, _ := states.Get("foo")
	bar, _ := states.Get("bar")

	tests := []struct {
		name string
		hook *Hook
		tr   *Transition
		from *State
		want bool
	}{
		{"before matches transition name", BeforeTransition(nopBefore, "foobar"), foobar, nil, true},
		{"before rejects other transition", BeforeTransition(nopBefore, "foobar"), gobaz, nil, false},
		{"wildcard matches everything", BeforeTransition(nopBefore), gobaz, nil, true},
		{"explicit wildcard", AfterTransition(nopAfter, Wildcard), foobar, nil, true},
		{"after matches transition name", AfterTransition(nopAfter, "gobaz"), gobaz, nil, true},
		{"check matches transition name", TransitionCheck(allowCheck, "foobar"), foobar, nil, true},
		{"check rejects other transition", TransitionCheck(allowCheck, "foobar"), gobaz, nil, false},
		{"on-enter matches target state", OnEnterState(nopAfter, "bar"), foobar, nil, true},
		{"on-enter rejects other target", OnEnterState(nopAfter, "bar"), gobaz, nil, false},
		{"on-leave without from matches any source", OnLeaveState(nopBefore, "foo"), gobaz, nil, true},
		{"on-leave without from rejects non-source", OnLeaveState(nopBefore, "baz"), gobaz, nil, false},
		{"on-leave matches current state", OnLeaveState(nopBefore, "foo"), gobaz, foo, true},
		{"on-leave rejects other current state", OnLeaveState(nopBefore, "foo"), gobaz, bar, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.hook.appliesTo(tt.tr, tt.from))
		})
	}
}

func TestSortHooksIsDeterministic(t *testing.T) {
	t.Parallel()

	h1 := BeforeTransition(nopBefore).Priority(2)
	h2 := BeforeTransition(nopBefore)
	h3 := BeforeTransition(nopBefore).Priority(2)

	// Priorities [2, 0, 2]: descending priority, with declaration order
	// breaking the tie between h1 and h3.
	first := []*Hook{h1, h2, h3}
	sortHooks(first)
	require.Equal(t, []*Hook{h1, h3, h2}, first)

	second := []*Hook{h1, h2, h3}
	sortHooks(second)
	assert.Equal(t, first, second)
}

func TestHookEqual(t *testing.T) {
	t.Parallel()

	a := BeforeTransition(nopBefore, "foobar").Priority(1)
	b := BeforeTransition(nopBefore, "foobar").Priority(1)
	assert.True(t, a.Equal(b))

	differentPriority := BeforeTransition(nopBefore, "foobar").Priority(2)
	assert.False(t, a.Equal(differentPriority))

	differentNames := BeforeTransition(nopBefore, "gobaz").Priority(1)
	assert.False(t, a.Equal(differentNames))

	differentKind := OnLeaveState(nopBefore, "foobar").Priority(1)
	assert.False(t, a.Equal(differentKind))

	otherFn := func(context.Context, *Instance, ...any) error { return nil }
	differentFunc := BeforeTransition(otherFn, "foobar").Priority(1)
	assert.False(t, a.Equal(differentFunc))

	assert.False(t, a.Equal(nil))
}

func TestHookFieldAndKindAccessors(t *testing.T) {
	t.Parallel()

	h := TransitionCheck(allowCheck, "foobar").Field("state").Priority(3)
	assert.Equal(t, HookCheck, h.Kind())
	assert.Equal(t, "state", h.field)
	assert.Equal(t, 3, h.priority)
}
