package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test errors.
var (
	errTestBoom = errors.New("boom")
)

// newTestDefinition builds the workflow used across tests:
// states foo, bar, baz; transitions foobar (foo -> bar),
// gobaz (foo, bar -> baz), bazbar (baz -> bar); initial foo.
func newTestDefinition(t *testing.T) *Definition {
	t.Helper()

	def, err := NewDefinition("test").
		AddStates(
			StateDef{Name: "foo", Title: "Foo"},
			StateDef{Name: "bar", Title: "Bar"},
			StateDef{Name: "baz", Title: "Baz"},
		).
		AddTransitions(
			TransitionDef{Name: "foobar", Sources: []string{"foo"}, Target: "bar"},
			TransitionDef{Name: "gobaz", Sources: []string{"foo", "bar"}, Target: "baz"},
			TransitionDef{Name: "bazbar", Sources: []string{"baz"}, Target: "bar"},
		).
		Initial("foo").
		Build()
	require.NoError(t, err)

	return def
}

// newTestInstance builds a schema binding the test workflow to the "state"
// field and returns a fresh instance of it.
func newTestInstance(t *testing.T) *Instance {
	t.Helper()

	schema, err := NewSchema().Attach("state", newTestDefinition(t)).Build()
	require.NoError(t, err)

	return schema.New()
}

// collect drains an iterator into a slice.
func collect[T any](seq func(yield func(T) bool)) []T {
	var items []T
	seq(func(item T) bool {
		items = append(items, item)

		return true
	})

	return items
}
