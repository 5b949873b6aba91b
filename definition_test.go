package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionRoundTrip(t *testing.T) {
	t.Parallel()

	def := newTestDefinition(t)

	assert.Equal(t, "test", def.Name())
	assert.Equal(t, "foo", def.InitialState().Name())

	foo, ok := def.States().Get("foo")
	require.True(t, ok)
	assert.Equal(t, "Foo", foo.Title())
	assert.Same(t, foo, def.InitialState())

	foobar, ok := def.Transitions().Get("foobar")
	require.True(t, ok)
	require.Len(t, foobar.Sources(), 1)
	assert.Same(t, foo, foobar.Sources()[0])

	bar, ok := def.States().Get("bar")
	require.True(t, ok)
	assert.Same(t, bar, foobar.Target())
}

func TestDefinitionBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		builder *DefinitionBuilder
		wantErr error
	}{
		{
			name:    "no states",
			builder: NewDefinition("w").Initial("foo"),
			wantErr: ErrNoStates,
		},
		{
			name:    "invalid state name",
			builder: NewDefinition("w").AddState("not valid", "").Initial("not valid"),
			wantErr: ErrInvalidStateName,
		},
		{
			name:    "missing initial",
			builder: NewDefinition("w").AddState("foo", ""),
			wantErr: ErrInitialStateRequired,
		},
		{
			name:    "initial not found",
			builder: NewDefinition("w").AddState("foo", "").Initial("bar"),
			wantErr: ErrInitialStateNotFound,
		},
		{
			name: "unknown source",
			builder: NewDefinition("w").
				AddState("foo", "").
				AddTransition("go", []string{"missing"}, "foo").
				Initial("foo"),
			wantErr: ErrUnknownState,
		},
		{
			name: "unknown target",
			builder: NewDefinition("w").
				AddState("foo", "").
				AddTransition("go", []string{"foo"}, "missing").
				Initial("foo"),
			wantErr: ErrUnknownState,
		},
		{
			name: "empty transition name",
			builder: NewDefinition("w").
				AddState("foo", "").
				AddTransition("", []string{"foo"}, "foo").
				Initial("foo"),
			wantErr: ErrTransitionNameRequired,
		},
		{
			name: "no sources",
			builder: NewDefinition("w").
				AddState("foo", "").
				AddTransition("go", nil, "foo").
				Initial("foo"),
			wantErr: ErrTransitionSourceRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.builder.Build()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStateReplacementKeepsPosition(t *testing.T) {
	t.Parallel()

	def, err := NewDefinition("w").
		AddState("foo", "Foo").
		AddState("bar", "Bar").
		AddState("foo", "Replaced foo").
		Initial("foo").
		Build()
	require.NoError(t, err)

	var names []string
	for state := range def.States().All() {
		names = append(names, state.Name())
	}

	assert.Equal(t, []string{"foo", "bar"}, names)

	foo, _ := def.States().Get("foo")
	assert.Equal(t, "Replaced foo", foo.Title())
}

func TestDeriveFromMergesStates(t *testing.T) {
	t.Parallel()

	parent := newTestDefinition(t)

	child, err := NewDefinition("child").
		DeriveFrom(parent).
		AddState("bar", "Child bar").
		AddState("qux", "Qux").
		AddTransition("toqux", []string{"baz"}, "qux").
		Build()
	require.NoError(t, err)

	var names []string
	for state := range child.States().All() {
		names = append(names, state.Name())
	}

	// bar is replaced in place, qux appended.
	assert.Equal(t, []string{"foo", "bar", "baz", "qux"}, names)

	childBar, _ := child.States().Get("bar")
	assert.Equal(t, "Child bar", childBar.Title())

	parentBar, _ := parent.States().Get("bar")
	assert.NotSame(t, parentBar, childBar)

	// Untouched states carry over as the same objects.
	parentFoo, _ := parent.States().Get("foo")
	childFoo, _ := child.States().Get("foo")
	assert.Same(t, parentFoo, childFoo)
}

// Inherited transitions are re-resolved against the derived state list, so a
// replaced state is referenced by its replacement everywhere.
func TestDeriveFromReresolvesTransitions(t *testing.T) {
	t.Parallel()

	parent := newTestDefinition(t)

	child, err := NewDefinition("child").
		DeriveFrom(parent).
		AddState("bar", "Child bar").
		Build()
	require.NoError(t, err)

	childBar, _ := child.States().Get("bar")

	foobar, ok := child.Transitions().Get("foobar")
	require.True(t, ok)
	assert.Same(t, childBar, foobar.Target())

	gobaz, ok := child.Transitions().Get("gobaz")
	require.True(t, ok)
	assert.True(t, gobaz.HasSource(childBar))
}

func TestDeriveFromOverridesTransitionInPlace(t *testing.T) {
	t.Parallel()

	parent := newTestDefinition(t)

	child, err := NewDefinition("child").
		DeriveFrom(parent).
		AddTransition("gobaz", []string{"foo"}, "baz").
		Build()
	require.NoError(t, err)

	var names []string
	for tr := range child.Transitions().All() {
		names = append(names, tr.Name())
	}

	assert.Equal(t, []string{"foobar", "gobaz", "bazbar"}, names)

	gobaz, _ := child.Transitions().Get("gobaz")
	require.Len(t, gobaz.Sources(), 1)
	assert.Equal(t, "foo", gobaz.Sources()[0].Name())
}

func TestDeriveFromInheritsInitial(t *testing.T) {
	t.Parallel()

	parent := newTestDefinition(t)

	child, err := NewDefinition("child").DeriveFrom(parent).Build()
	require.NoError(t, err)
	assert.Equal(t, "foo", child.InitialState().Name())

	overridden, err := NewDefinition("child2").DeriveFrom(parent).Initial("bar").Build()
	require.NoError(t, err)
	assert.Equal(t, "bar", overridden.InitialState().Name())
}

func TestMustBuildPanicsOnError(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		NewDefinition("w").MustBuild()
	})
}
