// Package workflowtest provides testing utilities for workflow schemas:
// a tracing instance wrapper with assertion helpers, hook recorders, and
// config fixtures.
package workflowtest

import (
	"context"
	"testing"

	"github.com/amp-labs/workflow"
	"github.com/stretchr/testify/require"
)

// TestInstance wraps a workflow instance with assertion helpers and records
// every transition applied through it.
type TestInstance struct {
	*workflow.Instance

	t     *testing.T
	trace []Step
}

// Step records a single applied transition.
type Step struct {
	Field      string
	Transition string
	From       string
	To         string
}

// NewInstance creates a traced instance of the schema.
func NewInstance(t *testing.T, schema *workflow.Schema) *TestInstance {
	t.Helper()

	return &TestInstance{Instance: schema.New(), t: t}
}

// Apply runs the named transition and fails the test on error. The transition
// name must occur in exactly one attached workflow.
func (ti *TestInstance) Apply(ctx context.Context, name string, args ...any) any {
	ti.t.Helper()

	return ti.ApplyField(ctx, ti.resolveField(name), name, args...)
}

// ApplyField runs the named transition of the workflow attached at field and
// fails the test on error.
func (ti *TestInstance) ApplyField(ctx context.Context, field, name string, args ...any) any {
	ti.t.Helper()

	from := ti.MustState(field).Name()

	result, err := ti.Instance.ApplyField(ctx, field, name, args...)
	require.NoError(ti.t, err, "transition %q from state %q", name, from)

	to := ti.MustState(field).Name()
	if to != from {
		ti.trace = append(ti.trace, Step{Field: field, Transition: name, From: from, To: to})
	}

	return result
}

// ApplyPath applies the named transitions in order, failing the test on the
// first error.
func (ti *TestInstance) ApplyPath(ctx context.Context, names ...string) {
	ti.t.Helper()

	for _, name := range names {
		ti.Apply(ctx, name)
	}
}

// RequireState asserts the current state of the workflow attached at field.
func (ti *TestInstance) RequireState(field, name string) {
	ti.t.Helper()

	require.Equal(ti.t, name, ti.MustState(field).Name(),
		"workflow at field %q should be in state %q", field, name)
}

// RequireAvailable asserts that the named transition may run right now.
func (ti *TestInstance) RequireAvailable(ctx context.Context, name string) {
	ti.t.Helper()

	require.True(ti.t, ti.IsAvailable(ctx, name), "transition %q should be available", name)
}

// RequireUnavailable asserts that the named transition may not run right now.
func (ti *TestInstance) RequireUnavailable(ctx context.Context, name string) {
	ti.t.Helper()

	require.False(ti.t, ti.IsAvailable(ctx, name), "transition %q should not be available", name)
}

// RequireTransitionTaken asserts that a recorded step moved a field from one
// state to another.
func (ti *TestInstance) RequireTransitionTaken(from, to string) {
	ti.t.Helper()

	for _, step := range ti.trace {
		if step.From == from && step.To == to {
			return
		}
	}

	require.Failf(ti.t, "transition not taken",
		"no recorded transition from %q to %q", from, to)
}

// RequireStateVisited asserts that some field passed through the named state.
func (ti *TestInstance) RequireStateVisited(name string) {
	ti.t.Helper()

	for _, field := range ti.Schema().Fields() {
		def, _ := ti.Schema().Definition(field)
		if def.InitialState().Name() == name {
			return
		}
	}

	for _, step := range ti.trace {
		if step.To == name {
			return
		}
	}

	require.Failf(ti.t, "state not visited", "state %q was never entered", name)
}

// Trace returns the recorded steps for inspection.
func (ti *TestInstance) Trace() []Step {
	return ti.trace
}

// resolveField finds the single attached workflow declaring the named
// transition.
func (ti *TestInstance) resolveField(name string) string {
	ti.t.Helper()

	var fields []string

	for _, field := range ti.Schema().Fields() {
		def, _ := ti.Schema().Definition(field)
		if def.Transitions().ContainsName(name) {
			fields = append(fields, field)
		}
	}

	require.Len(ti.t, fields, 1, "transition %q must occur in exactly one attached workflow", name)

	return fields[0]
}
