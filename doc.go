// Package workflow provides a declarative finite-state-machine engine: named
// states, named transitions with source/target constraints, per-transition
// implementations, and lifecycle hooks, with state changes enforced through
// valid, checked transitions.
//
// A workflow is declared once with a DefinitionBuilder and attached to a
// state field with a SchemaBuilder; instances then run transitions through
// the schema:
//
//	def := workflow.NewDefinition("ticket").
//		AddState("open", "Open").
//		AddState("resolved", "Resolved").
//		AddState("closed", "Closed").
//		AddTransition("resolve", []string{"open"}, "resolved").
//		AddTransition("close", []string{"open", "resolved"}, "closed").
//		Initial("open").
//		MustBuild()
//
//	schema := workflow.NewSchema().
//		Attach("state", def).
//		Implement("resolve", func(ctx context.Context, inst *workflow.Instance, args ...any) (any, error) {
//			return "resolved", nil
//		}).
//		Hooks(workflow.BeforeTransition(audit, "close")).
//		MustBuild()
//
//	ticket := schema.New()
//	result, err := ticket.Apply(ctx, "resolve")
//
// A transition invocation runs a fixed protocol: validity check, check
// hooks, before and on-leave hooks, the body, a single state mutation, then
// after and on-enter hooks. Every failure path leaves the instance's state
// unchanged.
//
// Definitions and schemas are immutable once built and safe for concurrent
// reads. Each Instance holds independent state; callers sharing one instance
// across goroutines must serialize access to it.
package workflow
