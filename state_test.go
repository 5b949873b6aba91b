package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateNameValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "foo", false},
		{"underscore", "foo_bar", false},
		{"digits", "state2", false},
		{"mixed case", "FooBar", false},
		{"empty", "", true},
		{"dash", "foo-bar", true},
		{"space", "foo bar", true},
		{"dot", "foo.bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state, err := newState(tt.input, "")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStateName)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input, state.Name())
		})
	}
}

func TestStateTitleDefaultsToName(t *testing.T) {
	t.Parallel()

	state, err := newState("draft", "")
	require.NoError(t, err)
	assert.Equal(t, "draft", state.Title())

	titled, err := newState("draft", "Draft document")
	require.NoError(t, err)
	assert.Equal(t, "Draft document", titled.Title())
}

func TestStateListOrder(t *testing.T) {
	t.Parallel()

	def := newTestDefinition(t)

	var names []string
	for state := range def.States().All() {
		names = append(names, state.Name())
	}

	assert.Equal(t, []string{"foo", "bar", "baz"}, names)
	assert.Equal(t, 3, def.States().Len())
}

func TestStateListContainsIsIdentity(t *testing.T) {
	t.Parallel()

	def := newTestDefinition(t)
	states := def.States()

	foo, ok := states.Get("foo")
	require.True(t, ok)
	assert.True(t, states.Contains(foo))
	assert.True(t, states.ContainsName("foo"))

	// A distinct state with the same name is not a member.
	impostor, err := newState("foo", "Foo")
	require.NoError(t, err)
	assert.False(t, states.Contains(impostor))

	assert.False(t, states.Contains(nil))
	assert.False(t, states.ContainsName("missing"))

	_, ok = states.Get("missing")
	assert.False(t, ok)
}

// For every declared state s, membership holds exactly when Get(s.Name())
// returns the identical object.
func TestStateListMembershipMatchesLookup(t *testing.T) {
	t.Parallel()

	def := newTestDefinition(t)
	states := def.States()

	for state := range states.All() {
		got, ok := states.Get(state.Name())
		require.True(t, ok)
		assert.Same(t, state, got)
		assert.True(t, states.Contains(state))
	}
}
