package workflow

import (
	"context"
	"fmt"
	"reflect"
	"slices"
)

// BodyFunc is the user-supplied effect of a transition, executed between the
// before hooks and the state mutation. Its result becomes the transition's
// result and is handed to the after hooks. Returning ErrAbortSilently cancels
// the transition without an error; any other non-nil error cancels it and
// propagates unchanged. No state mutation happens on any error.
type BodyFunc func(ctx context.Context, inst *Instance, args ...any) (any, error)

func noopBody(context.Context, *Instance, ...any) (any, error) {
	return nil, nil
}

// implementation binds one transition to one state field: the body to run
// and the hooks applicable to it, partitioned by kind. Implementations are
// compiled once per (field, transition) pair by SchemaBuilder.Build.
type implementation struct {
	field      string
	def        *Definition
	transition *Transition
	body       BodyFunc
	custom     bool
	hooks      map[HookKind][]*Hook
}

func (im *implementation) addHook(h *Hook) {
	if im.hooks == nil {
		im.hooks = make(map[HookKind][]*Hook)
	}

	im.hooks[h.kind] = append(im.hooks[h.kind], h)
}

// filterHooks collects the hooks of the given kinds that apply to this
// transition from the given state, sorted for dispatch. On-leave and on-enter
// hooks are state-sensitive, so filtering happens per call, not per
// transition.
func (im *implementation) filterHooks(from *State, kinds ...HookKind) []*Hook {
	var hooks []*Hook

	for _, kind := range kinds {
		for _, h := range im.hooks[kind] {
			if h.appliesTo(im.transition, from) {
				hooks = append(hooks, h)
			}
		}
	}

	sortHooks(hooks)

	return hooks
}

type attachment struct {
	field     string
	def       *Definition
	inherited bool
}

type implDecl struct {
	name      string
	field     string
	body      BodyFunc
	check     CheckFunc
	before    BeforeFunc
	after     AfterFunc
	inherited bool
}

type hookDecl struct {
	hook      *Hook
	inherited bool
}

// fieldBinding is one attached workflow compiled into a schema: the field
// holding the state and the implementations for every transition.
type fieldBinding struct {
	field string
	def   *Definition
	impls map[string]*implementation
}

// Schema is a compiled binding of one or more workflow definitions to named
// state fields, the Go counterpart of declaring workflow attributes on a
// class. A Schema is built once, is immutable, and is safe for concurrent
// use; per-object state lives on the Instance values it creates.
type Schema struct {
	fields map[string]*fieldBinding
	order  []string
	byName map[string][]string
	logger Logger

	// Declarations are retained, with implementation declarations resolved
	// to their host field, so Extend can recompile them in a derived schema.
	attachments []attachment
	impls       []implDecl
	hooks       []hookDecl
}

// Fields returns the attached field names in attachment order.
func (s *Schema) Fields() []string {
	return slices.Clone(s.order)
}

// Definition returns the workflow attached at field.
func (s *Schema) Definition(field string) (*Definition, bool) {
	binding, ok := s.fields[field]
	if !ok {
		return nil, false
	}

	return binding.def, true
}

// SchemaBuilder assembles a Schema: workflow attachments, transition
// implementations, and hook declarations. It replaces attribute scanning
// with explicit registration; every declaration is validated in Build.
type SchemaBuilder struct {
	attachments []attachment
	impls       []implDecl
	hooks       []hookDecl
	logger      Logger
}

// NewSchema creates an empty schema builder.
func NewSchema() *SchemaBuilder {
	return &SchemaBuilder{}
}

// Extend bases the schema on parent. All field bindings, implementations,
// and hooks are inherited. Re-implementing a transition overrides only that
// transition for its field; re-attaching a field replaces that field's whole
// binding, dropping the implementations and field-scoped hooks inherited for
// it.
func Extend(parent *Schema) *SchemaBuilder {
	b := &SchemaBuilder{logger: parent.logger}

	for _, att := range parent.attachments {
		att.inherited = true
		b.attachments = append(b.attachments, att)
	}

	for _, decl := range parent.impls {
		decl.inherited = true
		b.impls = append(b.impls, decl)
	}

	for _, decl := range parent.hooks {
		decl.inherited = true
		b.hooks = append(b.hooks, decl)
	}

	return b
}

// Attach binds def to a state field with the given name. Each attached
// workflow gets its own independent state slot on every instance.
func (b *SchemaBuilder) Attach(field string, def *Definition) *SchemaBuilder {
	b.attachments = append(b.attachments, attachment{field: field, def: def})

	return b
}

// ImplementOption configures a transition implementation declaration.
type ImplementOption func(*implDecl)

// OnField binds the implementation to the workflow attached at field,
// disambiguating when several attached workflows declare the same transition
// name.
func OnField(field string) ImplementOption {
	return func(d *implDecl) {
		d.field = field
	}
}

// WithCheck registers a single check predicate together with the
// implementation. It combines with TransitionCheck hooks: every registered
// predicate must pass.
func WithCheck(fn CheckFunc) ImplementOption {
	return func(d *implDecl) {
		d.check = fn
	}
}

// WithBefore registers a before hook together with the implementation.
func WithBefore(fn BeforeFunc) ImplementOption {
	return func(d *implDecl) {
		d.before = fn
	}
}

// WithAfter registers an after hook together with the implementation.
func WithAfter(fn AfterFunc) ImplementOption {
	return func(d *implDecl) {
		d.after = fn
	}
}

// Implement supplies the body for the named transition. Transitions without
// a custom body get a no-op implementation. Implementing the same transition
// twice with different bodies is a build error; repeating the identical
// declaration is allowed, and a builder created with Extend may override a
// body inherited from its parent.
func (b *SchemaBuilder) Implement(name string, body BodyFunc, opts ...ImplementOption) *SchemaBuilder {
	decl := implDecl{name: name, body: body}
	for _, opt := range opts {
		opt(&decl)
	}

	b.impls = append(b.impls, decl)

	return b
}

// Hooks registers hook declarations. See BeforeTransition, AfterTransition,
// TransitionCheck, OnEnterState, and OnLeaveState.
func (b *SchemaBuilder) Hooks(hooks ...*Hook) *SchemaBuilder {
	for _, h := range hooks {
		b.hooks = append(b.hooks, hookDecl{hook: h})
	}

	return b
}

// Logger sets the logger used for transitions on instances of this schema.
// A definition-level logger takes precedence; a nil logger disables logging.
func (b *SchemaBuilder) Logger(logger Logger) *SchemaBuilder {
	b.logger = logger

	return b
}

// Build validates every declaration and compiles the schema. Conflicting
// implementations, unknown transition or field names, and field collisions
// between attached workflows all fail the build; a failed build never yields
// a usable schema.
func (b *SchemaBuilder) Build() (*Schema, error) {
	attachments, err := b.resolveAttachments()
	if err != nil {
		return nil, err
	}

	schema := &Schema{
		fields:      make(map[string]*fieldBinding, len(attachments)),
		byName:      make(map[string][]string),
		logger:      b.logger,
		attachments: attachments,
	}

	for _, att := range attachments {
		schema.fields[att.field] = &fieldBinding{
			field: att.field,
			def:   att.def,
			impls: make(map[string]*implementation),
		}
		schema.order = append(schema.order, att.field)

		for tr := range att.def.transitions.All() {
			schema.byName[tr.name] = append(schema.byName[tr.name], att.field)
		}
	}

	if err := b.compileImplementations(schema); err != nil {
		return nil, err
	}

	b.installDefaults(schema)

	if err := b.registerHooks(schema); err != nil {
		return nil, err
	}

	schema.hooks = b.hooks

	return schema, nil
}

// MustBuild is like Build but panics on error. Intended for schemas
// assembled at package initialization.
func (b *SchemaBuilder) MustBuild() *Schema {
	schema, err := b.Build()
	if err != nil {
		panic(err)
	}

	return schema
}

// resolveAttachments merges inherited and declared attachments. A field
// attached twice in the same builder keeps its original position with the
// later workflow, mirroring the replace-by-name semantics of definitions;
// re-attaching an inherited field also drops the inherited declarations
// scoped to it.
func (b *SchemaBuilder) resolveAttachments() ([]attachment, error) {
	var resolved []attachment

	for _, att := range b.attachments {
		if att.field == "" {
			return nil, ErrFieldRequired
		}

		if att.def == nil {
			return nil, fmt.Errorf("field %q: %w", att.field, ErrDefinitionRequired)
		}

		i := slices.IndexFunc(resolved, func(existing attachment) bool {
			return existing.field == att.field
		})

		if i < 0 {
			resolved = append(resolved, att)

			continue
		}

		if resolved[i].inherited && !att.inherited {
			b.dropInherited(att.field)
		}

		resolved[i] = att
	}

	return resolved, nil
}

// dropInherited removes inherited implementation and hook declarations bound
// to field. Declarations without an explicit field survive: they bind to
// whichever workflow ends up declaring their transition.
func (b *SchemaBuilder) dropInherited(field string) {
	b.impls = slices.DeleteFunc(b.impls, func(decl implDecl) bool {
		return decl.inherited && decl.field == field
	})
	b.hooks = slices.DeleteFunc(b.hooks, func(decl hookDecl) bool {
		return decl.inherited && decl.hook.field == field
	})
}

func (b *SchemaBuilder) compileImplementations(schema *Schema) error {
	declIndex := make(map[string]int)

	for _, decl := range b.impls {
		if decl.body == nil {
			return fmt.Errorf("transition %q: %w", decl.name, ErrBodyRequired)
		}

		field, err := schema.resolveDeclField(decl.name, decl.field)
		if err != nil {
			return err
		}

		// Retained with the resolved field, so a derived schema that
		// re-attaches this field knows to drop the declaration.
		decl.field = field

		binding := schema.fields[field]

		tr, ok := binding.def.transitions.Get(decl.name)
		if !ok {
			return fmt.Errorf("field %q: %w: %q", field, ErrUnknownTransition, decl.name)
		}

		key := field + "." + decl.name
		if i, ok := declIndex[key]; ok {
			prev := schema.impls[i]

			// An inherited body may be overridden; beyond that, only the
			// identical function may be declared again.
			override := prev.inherited && !decl.inherited
			if !override && funcPointer(prev.body) != funcPointer(decl.body) {
				return fmt.Errorf("field %q, transition %q: %w", field, decl.name, ErrImplementationConflict)
			}

			schema.impls[i] = decl
		} else {
			declIndex[key] = len(schema.impls)
			schema.impls = append(schema.impls, decl)
		}

		im := &implementation{
			field:      field,
			def:        binding.def,
			transition: tr,
			body:       decl.body,
			custom:     true,
		}

		// Declaration-scoped hooks apply to this transition only, so they
		// are registered directly on the implementation.
		if decl.check != nil {
			im.addHook(TransitionCheck(decl.check))
		}

		if decl.before != nil {
			im.addHook(BeforeTransition(decl.before))
		}

		if decl.after != nil {
			im.addHook(AfterTransition(decl.after))
		}

		binding.impls[decl.name] = im
	}

	return nil
}

// installDefaults gives every transition without a custom body a no-op
// implementation.
func (b *SchemaBuilder) installDefaults(schema *Schema) {
	for _, field := range schema.order {
		binding := schema.fields[field]

		for tr := range binding.def.transitions.All() {
			if _, ok := binding.impls[tr.name]; ok {
				continue
			}

			binding.impls[tr.name] = &implementation{
				field:      field,
				def:        binding.def,
				transition: tr,
				body:       noopBody,
			}
		}
	}
}

// registerHooks attaches every declared hook to the implementations it
// applies to, in declaration order.
func (b *SchemaBuilder) registerHooks(schema *Schema) error {
	for _, decl := range b.hooks {
		h := decl.hook

		if h.field != "" {
			if _, ok := schema.fields[h.field]; !ok {
				return fmt.Errorf("%s hook: %w: %q", h.kind, ErrUnknownField, h.field)
			}
		}

		for _, field := range schema.order {
			if h.field != "" && h.field != field {
				continue
			}

			binding := schema.fields[field]

			for tr := range binding.def.transitions.All() {
				if h.appliesTo(tr, nil) {
					binding.impls[tr.name].addHook(h)
				}
			}
		}
	}

	return nil
}

// resolveDeclField resolves which attached workflow hosts a declaration for
// the named transition. Without an explicit field, the transition name must
// occur in exactly one attached workflow.
func (s *Schema) resolveDeclField(name, field string) (string, error) {
	if field != "" {
		if _, ok := s.fields[field]; !ok {
			return "", fmt.Errorf("transition %q: %w: %q", name, ErrUnknownField, field)
		}

		return field, nil
	}

	fields := s.byName[name]

	switch len(fields) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransition, name)
	case 1:
		return fields[0], nil
	default:
		return "", fmt.Errorf("%w: %q occurs in fields %v", ErrAmbiguousTransition, name, fields)
	}
}

func funcPointer(fn BodyFunc) uintptr {
	return reflect.ValueOf(fn).Pointer()
}
