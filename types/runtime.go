package types

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	eventbus "github.com/hanpama/graphdef/internal/eventbus"
	events "github.com/hanpama/graphdef/internal/events"
	executor "github.com/hanpama/graphdef/internal/executor"
)

// runtime executes a compiled Schema: declared resolvers run as async fields,
// everything else goes through the default resolver.
type runtime struct {
	schema *Schema
}

var _ executor.Runtime = (*runtime)(nil)

func (r *runtime) binding(objectType, field string) (*fieldBinding, error) {
	if b, ok := r.schema.bindings[objectType][field]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("no field %s.%s", objectType, field)
}

func (r *runtime) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	b, err := r.binding(objectType, field)
	if err != nil {
		return nil, err
	}
	return defaultResolve(b, source)
}

// defaultResolve reads the field from the parent value: under WithSource's
// name when set, else under the attribute name, else under the schema name.
func defaultResolve(b *fieldBinding, source any) (any, error) {
	acc := AccessorFor(source)
	names := []string{b.field.attr, b.name}
	if b.field.source != "" {
		names = []string{b.field.source}
	}
	for i, name := range names {
		if i > 0 && name == names[i-1] {
			continue
		}
		v, found, err := acc.Get(name)
		if err != nil {
			return nil, err
		}
		if found {
			return v, nil
		}
	}
	return nil, nil
}

func (r *runtime) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	if len(tasks) == 0 {
		return results
	}
	if len(tasks) == 1 {
		results[0] = r.resolveTask(ctx, tasks[0])
		return results
	}

	sem := make(chan struct{}, r.schema.cfg.maxConcurrency)
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i := range tasks {
		sem <- struct{}{}
		go func(i int) {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[i] = r.resolveTask(ctx, tasks[i])
		}(i)
	}
	wg.Wait()
	return results
}

func (r *runtime) resolveTask(ctx context.Context, task executor.AsyncResolveTask) executor.AsyncResolveResult {
	b, err := r.binding(task.ObjectType, task.Field)
	if err != nil {
		return executor.AsyncResolveResult{Error: err}
	}
	if b.resolver == nil {
		v, err := defaultResolve(b, task.Source)
		return executor.AsyncResolveResult{Value: v, Error: err}
	}
	if err := ctx.Err(); err != nil {
		return executor.AsyncResolveResult{Error: err}
	}

	args, err := b.arguments(task.Args)
	if err != nil {
		return executor.AsyncResolveResult{Error: err}
	}
	path := make([]any, len(task.Path))
	for i, p := range task.Path {
		path[i] = p
	}
	info := ResolveInfo{
		FieldName:  b.name,
		ParentType: b.parent,
		ReturnType: b.field.typ,
		Path:       path,
		Schema:     r.schema,
	}

	traced := eventbus.Enabled()
	start := time.Now()
	if traced {
		eventbus.Publish(ctx, events.ResolverStart{ObjectType: task.ObjectType, Field: task.Field, Path: path})
	}
	v, err := r.call(executor.WithPath(ctx, task.Path), b.resolver, untag(task.Source), args, info)
	if traced {
		eventbus.Publish(ctx, events.ResolverFinish{
			ObjectType: task.ObjectType,
			Field:      task.Field,
			Path:       path,
			Err:        err,
			Duration:   time.Since(start),
		})
	}
	return executor.AsyncResolveResult{Value: v, Error: err}
}

// call runs fn, turning a panic into an error after logging it.
func (r *runtime) call(ctx context.Context, fn ResolverFunc, source any, args Args, info ResolveInfo) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			if l := r.schema.cfg.logger; l != nil {
				l.LogPanic(ctx, p)
			}
			v, err = nil, fmt.Errorf("panic occurred: %v", p)
		}
	}()
	return fn(ctx, source, args, info)
}

// arguments rekeys coerced arguments by attribute name and parses custom
// scalar values.
func (b *fieldBinding) arguments(coerced map[string]any) (Args, error) {
	args := make(Args, len(coerced))
	for name, v := range coerced {
		a, ok := b.args[name]
		if !ok {
			continue
		}
		pv, err := parseInput(a.typ, v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		args[a.attr] = pv
	}
	return args, nil
}

func parseInput(t Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch w := t.(type) {
	case *LazyType:
		return parseInput(w.Resolve(), v)
	case *NonNullType:
		return parseInput(w.ofType, v)
	case *ListType:
		items, ok := toSlice(v)
		if !ok {
			return v, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			pv, err := parseInput(w.ofType, item)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	case *Scalar:
		if w.builtin {
			return v, nil
		}
		return w.ParseValue(v)
	}
	return v, nil
}

func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		// bytes are a scalar value
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// ResolveType classifies a value returned for an interface field: tagged
// values by their tag, then by the interface's TypeResolver when declared,
// else by the first implementation whose IsTypeOf accepts it.
func (r *runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	iface, ok := r.schema.byName[abstractType].(*Interface)
	if !ok {
		return "", fmt.Errorf("%s is not an interface", abstractType)
	}

	var obj *ObjectType
	switch {
	case isTyped(value):
		obj = value.(Typed).Type
	case iface.meta.typeResolver != nil:
		path, _ := executor.PathFromContext(ctx)
		info := ResolveInfo{ReturnType: iface, Path: toAnySlice(path), Schema: r.schema}
		if len(path) > 0 {
			if name, ok := path[len(path)-1].(string); ok {
				info.FieldName = name
			}
		}
		var err error
		obj, err = iface.meta.typeResolver(ctx, value, info)
		if err != nil {
			return "", err
		}
	default:
		for _, impl := range r.schema.implementations[iface] {
			if impl.IsTypeOf(value) {
				obj = impl
				break
			}
		}
	}

	if obj == nil {
		return "", &TypeResolutionError{Interface: iface.Name(), Value: untag(value)}
	}
	if r.schema.byName[obj.Name()] != Type(obj) {
		return "", &TypeResolutionError{
			Interface: iface.Name(),
			Value:     untag(value),
			Err:       fmt.Errorf("object type %s is not part of the schema", obj.Name()),
		}
	}
	return obj.Name(), nil
}

func isTyped(value any) bool {
	_, ok := value.(Typed)
	return ok
}

func toAnySlice(p executor.Path) []any {
	out := make([]any, len(p))
	for i, e := range p {
		out[i] = e
	}
	return out
}

func (r *runtime) ResolveUnionConcreteValue(ctx context.Context, unionTypeName string, value any) (any, error) {
	return untag(value), nil
}

func (r *runtime) ResolveInterfaceConcreteValue(ctx context.Context, interfaceTypeName string, value any) (any, error) {
	return untag(value), nil
}

func (r *runtime) SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error) {
	sc, ok := r.schema.byName[scalarOrEnumTypeName].(*Scalar)
	if !ok {
		return nil, fmt.Errorf("%s is not a scalar type", scalarOrEnumTypeName)
	}
	return sc.Serialize(untag(value))
}
