package workflow

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransitionMetrics verifies counters for successful and failed
// transitions.
// Note: Cannot use t.Parallel() because this test modifies global Prometheus metrics.
//
//nolint:paralleltest // Test modifies global Prometheus metric state
func TestTransitionMetrics(t *testing.T) {
	transitionsTotal.Reset()
	transitionFailuresTotal.Reset()

	inst := newTestInstance(t)

	_, err := inst.Apply(context.Background(), "foobar")
	require.NoError(t, err)

	success := testutil.ToFloat64(
		transitionsTotal.WithLabelValues("test", "foobar", "foo", "bar"),
	)
	assert.InDelta(t, 1, success, 0)

	// bazbar is invalid from bar.
	_, err = inst.Apply(context.Background(), "bazbar")
	require.ErrorIs(t, err, ErrInvalidTransition)

	invalid := testutil.ToFloat64(
		transitionFailuresTotal.WithLabelValues("test", "bazbar", reasonInvalid),
	)
	assert.InDelta(t, 1, invalid, 0)
}

// TestSilentAbortMetrics verifies that a silent abort counts as a failure with
// the aborted reason but not as a transition.
//
//nolint:paralleltest // Test modifies global Prometheus metric state
func TestSilentAbortMetrics(t *testing.T) {
	transitionsTotal.Reset()
	transitionFailuresTotal.Reset()

	schema, err := NewSchema().
		Attach("state", newTestDefinition(t)).
		Implement("foobar", func(context.Context, *Instance, ...any) (any, error) {
			return nil, ErrAbortSilently
		}).
		Build()
	require.NoError(t, err)

	inst := schema.New()

	_, err = inst.Apply(context.Background(), "foobar")
	require.NoError(t, err)

	aborted := testutil.ToFloat64(
		transitionFailuresTotal.WithLabelValues("test", "foobar", reasonAborted),
	)
	assert.InDelta(t, 1, aborted, 0)
	assert.Equal(t, 0, testutil.CollectAndCount(transitionsTotal))
}

// TestHookDurationMetric verifies that hook executions are observed.
//
//nolint:paralleltest // Test modifies global Prometheus metric state
func TestHookDurationMetric(t *testing.T) {
	hookDuration.Reset()

	schema, err := NewSchema().
		Attach("state", newTestDefinition(t)).
		Hooks(
			TransitionCheck(func(context.Context, *Instance) bool { return true }, "foobar"),
			BeforeTransition(func(context.Context, *Instance, ...any) error { return nil }, "foobar"),
		).
		Build()
	require.NoError(t, err)

	_, err = schema.New().Apply(context.Background(), "foobar")
	require.NoError(t, err)

	// One series per hook kind.
	assert.Equal(t, 2, testutil.CollectAndCount(hookDuration))
}
