package workflow

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Failure reason constants for metrics.
const (
	reasonInvalid   = "invalid"
	reasonForbidden = "forbidden"
	reasonAborted   = "aborted"
	reasonError     = "error"
)

// invoke runs the full transition protocol:
//
//	validity check -> check hooks -> before/on-leave hooks -> body ->
//	state mutation -> after/on-enter hooks
//
// Exactly one state write happens per successful invocation, after the body
// succeeds; every failure path leaves the instance unchanged. A silent abort
// (ErrAbortSilently from a before hook or the body) returns (nil, nil).
func (im *implementation) invoke(ctx context.Context, inst *Instance, args []any) (result any, err error) {
	from := inst.states[im.field]
	logger := im.logger(inst)

	ctx, span := startTransitionSpan(ctx, im.def.name, im.transition.name, from.name)
	start := time.Now()
	silent := false

	defer func() {
		elapsed := time.Since(start)

		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeError

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			transitionFailuresTotal.WithLabelValues(im.def.name, im.transition.name, failureReason(err)).Inc()

			if logger != nil {
				logger.TransitionFailed(ctx, im.def.name, im.transition.name, from.name, err)
			}
		} else if silent {
			outcome = outcomeAborted

			span.SetStatus(codes.Ok, "aborted silently")
			transitionFailuresTotal.WithLabelValues(im.def.name, im.transition.name, reasonAborted).Inc()
		} else {
			span.SetStatus(codes.Ok, "completed")
		}

		span.SetAttributes(attribute.Int64("duration_ms", elapsed.Milliseconds()))
		span.End()

		transitionDuration.WithLabelValues(im.def.name, im.transition.name, outcome).Observe(elapsed.Seconds())
	}()

	if err = im.preChecks(ctx, inst, from); err != nil {
		return nil, err
	}

	if err = im.runBeforeHooks(ctx, inst, from, args); err != nil {
		if errors.Is(err, ErrAbortSilently) {
			silent = true

			return nil, nil
		}

		return nil, err
	}

	result, err = im.body(ctx, inst, args...)
	if err != nil {
		if errors.Is(err, ErrAbortSilently) {
			silent = true

			return nil, nil
		}

		// An error that is not an abort signal propagates unchanged.
		return nil, err
	}

	// The single point of mutation.
	inst.states[im.field] = im.transition.target

	transitionsTotal.WithLabelValues(
		im.def.name, im.transition.name, from.name, im.transition.target.name,
	).Inc()

	if logger != nil {
		logger.TransitionExecuted(ctx, im.def.name, im.transition.name, from.name, im.transition.target.name)
	}

	if err = im.runAfterHooks(ctx, inst, result, args); err != nil {
		return result, err
	}

	return result, nil
}

// preChecks runs the validity check and the check hooks. It never mutates
// state, so callers may use it for availability queries.
func (im *implementation) preChecks(ctx context.Context, inst *Instance, from *State) error {
	if !im.transition.HasSource(from) {
		return &InvalidTransitionError{
			Workflow:   im.def.name,
			Transition: im.transition.name,
			State:      from.name,
		}
	}

	for _, h := range im.filterHooks(from, HookCheck) {
		if !im.runCheck(ctx, inst, h) {
			return &ForbiddenTransitionError{
				Workflow:   im.def.name,
				Transition: im.transition.name,
			}
		}
	}

	return nil
}

func (im *implementation) runBeforeHooks(ctx context.Context, inst *Instance, from *State, args []any) error {
	// Before and on-leave hooks run in one combined, priority-sorted pass.
	for _, h := range im.filterHooks(from, HookBefore, HookOnLeave) {
		hctx, span := startHookSpan(ctx, h.kind.String(), im.def.name, im.transition.name)
		start := time.Now()
		err := h.before(hctx, inst, args...)
		im.observeHook(h.kind, start)
		endHookSpan(span, err)

		if err != nil {
			return err
		}
	}

	return nil
}

func (im *implementation) runAfterHooks(ctx context.Context, inst *Instance, result any, args []any) error {
	current := inst.states[im.field]

	for _, h := range im.filterHooks(current, HookAfter, HookOnEnter) {
		hctx, span := startHookSpan(ctx, h.kind.String(), im.def.name, im.transition.name)
		start := time.Now()
		err := h.after(hctx, inst, result, args...)
		im.observeHook(h.kind, start)
		endHookSpan(span, err)

		if err != nil {
			return err
		}
	}

	return nil
}

func (im *implementation) runCheck(ctx context.Context, inst *Instance, h *Hook) bool {
	hctx, span := startHookSpan(ctx, h.kind.String(), im.def.name, im.transition.name)
	start := time.Now()
	ok := h.check(hctx, inst)
	im.observeHook(h.kind, start)
	endHookSpan(span, nil)

	return ok
}

func (im *implementation) observeHook(kind HookKind, start time.Time) {
	hookDuration.WithLabelValues(im.def.name, im.transition.name, kind.String()).Observe(time.Since(start).Seconds())
}

// logger resolves the effective logger: the definition's, then the
// schema's. A nil logger disables transition logging.
func (im *implementation) logger(inst *Instance) Logger {
	if im.def.logger != nil {
		return im.def.logger
	}

	return inst.schema.logger
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return reasonInvalid
	case errors.Is(err, ErrForbiddenTransition):
		return reasonForbidden
	case errors.Is(err, ErrTransitionAborted):
		return reasonAborted
	default:
		return reasonError
	}
}
