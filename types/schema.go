package types

import (
	"context"
	"fmt"
	goruntime "runtime"
	"time"

	eventbus "github.com/hanpama/graphdef/internal/eventbus"
	events "github.com/hanpama/graphdef/internal/events"
	executor "github.com/hanpama/graphdef/internal/executor"
	introspection "github.com/hanpama/graphdef/internal/introspection"
	language "github.com/hanpama/graphdef/internal/language"
	log "github.com/hanpama/graphdef/internal/log"
	reqid "github.com/hanpama/graphdef/internal/reqid"
	schema "github.com/hanpama/graphdef/internal/schema"
	"github.com/hanpama/graphdef/internal/strcase"
)

type (
	// Logger records panics recovered from resolvers.
	Logger = log.Logger
	// LoggerFunc adapts a function to Logger.
	LoggerFunc = log.LoggerFunc
	// Error is one entry of Result.Errors.
	Error = executor.GraphQLError
	// Location is a line and column in the query document.
	Location = executor.Location
)

// Schema is a compiled set of declarations bound to an executor.
type Schema struct {
	query    *ObjectType
	mutation *ObjectType
	cfg      schemaConfig

	named           []Type
	byName          map[string]Type
	implementations map[*Interface][]*ObjectType
	bindings        map[string]map[string]*fieldBinding

	sdl      string
	ast      *language.Schema
	compiled *schema.Schema
	exec     *executor.Executor
	runtime  *runtime
}

// fieldBinding ties a compiled object field to its declaration.
type fieldBinding struct {
	parent   *ObjectType
	field    *Field
	name     string
	resolver ResolverFunc
	// args maps schema argument names to their declarations.
	args map[string]*Argument
}

type schemaConfig struct {
	mutation       *ObjectType
	types          []Type
	autoCamelCase  bool
	logger         Logger
	maxConcurrency int
	introspection  bool
}

// SchemaOption configures NewSchema.
type SchemaOption func(*schemaConfig)

// WithMutation sets the mutation root.
func WithMutation(t *ObjectType) SchemaOption {
	return func(c *schemaConfig) { c.mutation = t }
}

// WithTypes registers types that are not reachable from the roots, typically
// object types only returned through an interface.
func WithTypes(types ...Type) SchemaOption {
	return func(c *schemaConfig) { c.types = append(c.types, types...) }
}

// WithAutoCamelCase controls whether attribute names without an explicit
// WithName are camel-cased into schema names. It is on by default.
func WithAutoCamelCase(enabled bool) SchemaOption {
	return func(c *schemaConfig) { c.autoCamelCase = enabled }
}

// WithLogger sets the logger receiving recovered resolver panics.
func WithLogger(l Logger) SchemaOption {
	return func(c *schemaConfig) { c.logger = l }
}

// WithMaxConcurrency bounds the number of resolvers running at once for one
// execution depth. Values below 1 mean GOMAXPROCS.
func WithMaxConcurrency(n int) SchemaOption {
	return func(c *schemaConfig) { c.maxConcurrency = n }
}

// WithIntrospection enables or disables the __schema and __type fields.
func WithIntrospection(enabled bool) SchemaOption {
	return func(c *schemaConfig) { c.introspection = enabled }
}

// NewSchema compiles the types reachable from query, the mutation root and
// the types given with WithTypes. Invalid declarations, name collisions and
// interface fields an implementation does not satisfy are reported as a
// *DeclarationError.
func NewSchema(query *ObjectType, opts ...SchemaOption) (*Schema, error) {
	cfg := schemaConfig{
		autoCamelCase:  true,
		logger:         &log.DefaultLogger{},
		maxConcurrency: goruntime.GOMAXPROCS(0),
		introspection:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxConcurrency < 1 {
		cfg.maxConcurrency = goruntime.GOMAXPROCS(0)
	}
	if query == nil {
		return nil, declErrorf("", "a query root type is required")
	}

	s := &Schema{
		query:           query,
		mutation:        cfg.mutation,
		cfg:             cfg,
		byName:          make(map[string]Type),
		implementations: make(map[*Interface][]*ObjectType),
		bindings:        make(map[string]map[string]*fieldBinding),
	}
	for name, sc := range builtinScalars {
		s.byName[name] = sc
	}

	roots := []Type{query}
	if cfg.mutation != nil {
		roots = append(roots, cfg.mutation)
	}
	for _, t := range append(roots, cfg.types...) {
		if err := s.register(t); err != nil {
			return nil, err
		}
	}
	if s.mutation != nil && s.mutation.Name() == s.query.Name() {
		return nil, declErrorf(s.query.Name(), "query and mutation roots must be different types")
	}

	built, err := s.build()
	if err != nil {
		return nil, err
	}
	s.sdl = schema.Render(built)
	doc, err := language.LoadSchema("schema.graphql", s.sdl)
	if err != nil {
		return nil, &DeclarationError{Message: "invalid schema", Err: err}
	}
	s.ast = doc

	s.runtime = &runtime{schema: s}
	var rt executor.Runtime = s.runtime
	s.compiled = built
	if cfg.introspection {
		w := introspection.Wrap(rt, built)
		rt, s.compiled = w.Runtime, w.Schema
	}
	s.exec = executor.NewExecutor(rt, s.compiled)
	return s, nil
}

// MustNewSchema is like NewSchema but panics on error.
func MustNewSchema(query *ObjectType, opts ...SchemaOption) *Schema {
	s, err := NewSchema(query, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Query() *ObjectType    { return s.query }
func (s *Schema) Mutation() *ObjectType { return s.mutation }

// SDL returns the schema in the GraphQL schema definition language.
func (s *Schema) SDL() string { return s.sdl }

// Types returns the named types of the schema in registration order,
// built-in scalars excluded.
func (s *Schema) Types() []Type { return append([]Type(nil), s.named...) }

// Type looks up a named type, built-in scalars included.
func (s *Schema) Type(name string) (Type, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Implementations returns the object types implementing iface in
// registration order.
func (s *Schema) Implementations(iface *Interface) []*ObjectType {
	return append([]*ObjectType(nil), s.implementations[iface]...)
}

// register adds the named type behind t and everything it references.
func (s *Schema) register(t Type) error {
	named, err := namedOf(t)
	if err != nil {
		return err
	}
	name := named.String()
	if prev, ok := s.byName[name]; ok {
		if prev != named {
			return declErrorf(name, "type name declared more than once")
		}
		return nil
	}
	s.byName[name] = named
	s.named = append(s.named, named)

	switch n := named.(type) {
	case *Scalar:
		return nil
	case *ObjectType:
		for _, iface := range n.meta.interfaces {
			if err := s.register(iface); err != nil {
				return err
			}
			s.implementations[iface] = append(s.implementations[iface], n)
		}
		return s.registerFields(name, n.meta.fields)
	case *Interface:
		return s.registerFields(name, n.meta.fields)
	}
	return declErrorf(name, "unsupported type %T", named)
}

func (s *Schema) registerFields(typeName string, fields *FieldMap) error {
	for attr, f := range fields.All() {
		if err := s.register(f.typ); err != nil {
			return wrapFieldError(typeName, attr, err)
		}
		for _, a := range f.args {
			if err := s.register(a.typ); err != nil {
				return wrapFieldError(typeName, attr, fmt.Errorf("argument %q: %w", a.attr, err))
			}
		}
	}
	return nil
}

func wrapFieldError(typeName, attr string, err error) error {
	return &DeclarationError{Type: typeName, Message: fmt.Sprintf("field %q", attr), Err: err}
}

// namedOf strips wrappers from t. A NonNull directly wrapping another NonNull
// is rejected.
func namedOf(t Type) (Type, error) {
	for {
		if t == nil || isNilPointer(t) {
			return nil, fmt.Errorf("type is nil")
		}
		switch w := t.(type) {
		case *LazyType:
			r, err := resolveLazy(w)
			if err != nil {
				return nil, err
			}
			t = r
		case *NonNullType:
			inner, err := resolveLazy(w.ofType)
			if err != nil {
				return nil, err
			}
			if _, ok := inner.(*NonNullType); ok {
				return nil, fmt.Errorf("NonNull cannot wrap the non-null type %s", inner)
			}
			t = inner
		case *ListType:
			t = w.ofType
		case *FieldResolver:
			t = w.ObjectType
		case *Mutation:
			t = w.ObjectType
		default:
			return t, nil
		}
	}
}

func (s *Schema) typeRef(t Type) (*schema.TypeRef, error) {
	if t == nil || isNilPointer(t) {
		return nil, fmt.Errorf("type is nil")
	}
	switch w := t.(type) {
	case *LazyType:
		r, err := resolveLazy(w)
		if err != nil {
			return nil, err
		}
		return s.typeRef(r)
	case *NonNullType:
		inner, err := s.typeRef(w.ofType)
		if err != nil {
			return nil, err
		}
		if inner.IsNonNull() {
			return nil, fmt.Errorf("NonNull cannot wrap the non-null type %s", w.ofType)
		}
		return schema.NonNullType(inner), nil
	case *ListType:
		inner, err := s.typeRef(w.ofType)
		if err != nil {
			return nil, err
		}
		return schema.ListType(inner), nil
	}
	named, err := namedOf(t)
	if err != nil {
		return nil, err
	}
	if s.byName[named.String()] != named {
		return nil, fmt.Errorf("type %s is not part of the schema", named)
	}
	return schema.NamedType(named.String()), nil
}

func (s *Schema) build() (*schema.Schema, error) {
	out := schema.NewSchema("")
	out.SetQueryType(s.query.Name())
	if s.mutation != nil {
		out.SetMutationType(s.mutation.Name())
	}
	for _, t := range s.named {
		switch t := t.(type) {
		case *Scalar:
			if t.builtin {
				continue
			}
			out.AddType(schema.NewType(t.Name(), schema.TypeKindScalar, t.Description()))
		case *ObjectType:
			st := schema.NewType(t.Name(), schema.TypeKindObject, t.Description())
			for _, iface := range t.meta.interfaces {
				st.AddInterface(iface.Name())
			}
			bindings, err := s.buildFields(st, t.meta, t)
			if err != nil {
				return nil, err
			}
			s.bindings[t.Name()] = bindings
			out.AddType(st)
		case *Interface:
			st := schema.NewType(t.Name(), schema.TypeKindInterface, t.Description())
			if _, err := s.buildFields(st, t.meta, nil); err != nil {
				return nil, err
			}
			for _, impl := range s.implementations[t] {
				st.AddPossibleType(impl.Name())
			}
			out.AddType(st)
		}
	}
	return out, nil
}

// buildFields compiles the collected fields of meta into st. obj is nil for
// interfaces, whose fields are never resolved directly.
func (s *Schema) buildFields(st *schema.Type, meta *TypeMeta, obj *ObjectType) (map[string]*fieldBinding, error) {
	bindings := make(map[string]*fieldBinding, meta.fields.Len())
	seen := make(map[string]string, meta.fields.Len())
	for attr, f := range meta.fields.All() {
		name := s.schemaName(f.name, attr)
		if other, dup := seen[name]; dup {
			return nil, declErrorf(meta.name, "fields %q and %q are both named %q", other, attr, name)
		}
		seen[name] = attr

		ref, err := s.typeRef(f.typ)
		if err != nil {
			return nil, wrapFieldError(meta.name, attr, err)
		}
		sf := schema.NewField(name, f.description, ref)
		if f.deprecationReason != "" {
			sf.Deprecate(f.deprecationReason)
		}

		b := &fieldBinding{parent: obj, field: f, name: name, args: make(map[string]*Argument, len(f.args))}
		for _, a := range f.args {
			iv, err := s.buildArgument(a)
			if err != nil {
				return nil, wrapFieldError(meta.name, attr, fmt.Errorf("argument %q: %w", a.attr, err))
			}
			if _, dup := b.args[iv.Name]; dup {
				return nil, wrapFieldError(meta.name, attr, fmt.Errorf("argument name %q used more than once", iv.Name))
			}
			b.args[iv.Name] = a
			sf.AddArgument(iv)
		}

		if obj != nil {
			b.resolver = resolverFor(meta, f, attr)
			if b.resolver != nil {
				sf.SetAsync(true)
			}
		}
		bindings[name] = b
		st.AddField(sf)
	}
	return bindings, nil
}

func (s *Schema) buildArgument(a *Argument) (*schema.InputValue, error) {
	if _, ok := NamedType(a.typ).(*Scalar); !ok {
		return nil, fmt.Errorf("%s is not an input type", a.typ)
	}
	ref, err := s.typeRef(a.typ)
	if err != nil {
		return nil, err
	}
	iv := schema.NewInputValue(s.schemaName(a.name, a.attr), a.description, ref)
	if dv, ok := a.DefaultValue(); ok && dv != nil {
		v, err := serializeInput(a.typ, dv)
		if err != nil {
			return nil, fmt.Errorf("default value: %w", err)
		}
		iv.SetDefault(v)
	}
	if a.deprecationReason != "" {
		iv.Deprecate(a.deprecationReason)
	}
	return iv, nil
}

// schemaName is explicit when given, otherwise derived from the attribute.
func (s *Schema) schemaName(explicit, attr string) string {
	if explicit != "" {
		return explicit
	}
	if s.cfg.autoCamelCase {
		return strcase.LowerCamelCase(attr)
	}
	return attr
}

// resolverFor picks the resolve function of a field: the field's own
// resolver, then one declared on the type or its bases, then one declared on
// an implemented interface. A nil result selects the default resolver.
func resolverFor(meta *TypeMeta, f *Field, attr string) ResolverFunc {
	if f.resolver != nil {
		return f.resolver
	}
	if fn, ok := meta.Resolver(attr); ok {
		return fn
	}
	for _, iface := range meta.interfaces {
		if fn, ok := iface.meta.Resolver(attr); ok {
			return fn
		}
	}
	return nil
}

// serializeInput converts a declared default value into its wire form.
func serializeInput(t Type, v any) (any, error) {
	switch w := t.(type) {
	case *LazyType:
		r, err := resolveLazy(w)
		if err != nil {
			return nil, err
		}
		return serializeInput(r, v)
	case *NonNullType:
		return serializeInput(w.ofType, v)
	case *ListType:
		items, ok := toSlice(v)
		if !ok {
			item, err := serializeInput(w.ofType, v)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			sv, err := serializeInput(w.ofType, item)
			if err != nil {
				return nil, err
			}
			out[i] = sv
		}
		return out, nil
	case *Scalar:
		return w.Serialize(v)
	}
	return nil, fmt.Errorf("%s is not an input type", t)
}

// ExecuteOption configures one Execute call.
type ExecuteOption func(*executeParams)

type executeParams struct {
	variables     map[string]any
	operationName string
	rootValue     any
}

func WithVariables(vars map[string]any) ExecuteOption {
	return func(p *executeParams) { p.variables = vars }
}

// WithOperationName selects the operation to run in a document holding
// several.
func WithOperationName(name string) ExecuteOption {
	return func(p *executeParams) { p.operationName = name }
}

// WithRootValue sets the source value of root fields.
func WithRootValue(v any) ExecuteOption {
	return func(p *executeParams) { p.rootValue = v }
}

// Result is the outcome of Execute. Data is nil when the query failed
// validation; resolver failures null their field and add an entry to Errors.
type Result struct {
	Data   map[string]any `json:"data"`
	Errors []Error        `json:"errors,omitempty"`
}

// Execute validates and runs query. It never panics on resolver failures.
func (s *Schema) Execute(ctx context.Context, query string, opts ...ExecuteOption) *Result {
	var p executeParams
	for _, opt := range opts {
		opt(&p)
	}
	if _, ok := reqid.FromContext(ctx); !ok {
		ctx, _ = reqid.NewContext(ctx)
	}

	doc, errs := language.LoadQuery(s.ast, query)
	opType := ""
	var op *language.OperationDefinition
	if doc != nil {
		op = selectOperation(doc, p.operationName)
		if op != nil {
			opType = string(op.Operation)
		}
	}

	start := time.Now()
	eventbus.Publish(ctx, events.GraphQLStart{Query: query, OperationName: p.operationName, OperationType: opType})
	res := s.execute(ctx, doc, op, errs, p)
	if eventbus.Enabled() {
		finishErrs := make([]error, len(res.Errors))
		for i := range res.Errors {
			finishErrs[i] = res.Errors[i]
		}
		eventbus.Publish(ctx, events.GraphQLFinish{
			Query:         query,
			OperationName: p.operationName,
			OperationType: opType,
			Errors:        finishErrs,
			Duration:      time.Since(start),
		})
	}
	return res
}

func (s *Schema) execute(ctx context.Context, doc *language.QueryDocument, op *language.OperationDefinition, errs language.ErrorList, p executeParams) *Result {
	if len(errs) > 0 {
		return &Result{Errors: fromGQLErrors(errs)}
	}
	if !s.cfg.introspection && op != nil && selectsIntrospection(op.SelectionSet, map[string]bool{}) {
		return &Result{Errors: []Error{{Message: "GraphQL introspection is not allowed"}}}
	}
	r := s.exec.ExecuteRequest(ctx, doc, p.operationName, p.variables, p.rootValue)
	res := &Result{}
	res.Data, _ = r.Data.(map[string]any)
	if len(r.Errors) > 0 {
		res.Errors = r.Errors
	}
	return res
}

func selectOperation(doc *language.QueryDocument, name string) *language.OperationDefinition {
	if name == "" {
		if len(doc.Operations) == 1 {
			return doc.Operations[0]
		}
		return nil
	}
	for _, op := range doc.Operations {
		if op.Name == name {
			return op
		}
	}
	return nil
}

func selectsIntrospection(set language.SelectionSet, visited map[string]bool) bool {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *language.Field:
			if sel.Name == "__schema" || sel.Name == "__type" {
				return true
			}
		case *language.InlineFragment:
			if selectsIntrospection(sel.SelectionSet, visited) {
				return true
			}
		case *language.FragmentSpread:
			if visited[sel.Name] || sel.Definition == nil {
				continue
			}
			visited[sel.Name] = true
			if selectsIntrospection(sel.Definition.SelectionSet, visited) {
				return true
			}
		}
	}
	return false
}

func fromGQLErrors(list language.ErrorList) []Error {
	out := make([]Error, 0, len(list))
	for _, e := range list {
		if e == nil {
			continue
		}
		ge := Error{Message: e.Message, Extensions: e.Extensions, Err: e}
		for _, loc := range e.Locations {
			ge.Locations = append(ge.Locations, Location{Line: loc.Line, Column: loc.Column})
		}
		out = append(out, ge)
	}
	return out
}
