package workflowtest

import (
	"context"
	"slices"
	"sync"

	"github.com/amp-labs/workflow"
)

// Recorder produces hook and body functions that record their invocations as
// labels, for asserting on dispatch order. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Events returns the recorded labels in invocation order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Reset discards the recorded labels.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}

func (r *Recorder) record(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, label)
}

// Before returns a before hook function recording label, failing with err if
// it is non-nil.
func (r *Recorder) Before(label string, err error) workflow.BeforeFunc {
	return func(context.Context, *workflow.Instance, ...any) error {
		r.record(label)

		return err
	}
}

// After returns an after hook function recording label, failing with err if
// it is non-nil.
func (r *Recorder) After(label string, err error) workflow.AfterFunc {
	return func(context.Context, *workflow.Instance, any, ...any) error {
		r.record(label)

		return err
	}
}

// Check returns a check hook function recording label and returning ok.
func (r *Recorder) Check(label string, ok bool) workflow.CheckFunc {
	return func(context.Context, *workflow.Instance) bool {
		r.record(label)

		return ok
	}
}

// Body returns a transition body recording label and returning result.
func (r *Recorder) Body(label string, result any) workflow.BodyFunc {
	return func(context.Context, *workflow.Instance, ...any) (any, error) {
		r.record(label)

		return result, nil
	}
}
