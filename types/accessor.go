package types

import (
	"reflect"
	"strings"
	"sync"

	"github.com/hanpama/graphdef/internal/strcase"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ValueAccessor reads named attributes of a parent value for the default
// resolver. found is false when the value has no such attribute.
type ValueAccessor interface {
	Get(name string) (value any, found bool, err error)
}

// AccessorFor selects the accessor matching the shape of value: protobuf
// messages, maps with string keys and structs (or pointers to them). Other
// values, including nil, have no attributes.
func AccessorFor(value any) ValueAccessor {
	value = untag(value)
	switch v := value.(type) {
	case nil:
		return emptyAccessor{}
	case map[string]any:
		return mapAccessor(v)
	case proto.Message:
		if isNilPointer(v) {
			return emptyAccessor{}
		}
		return protoAccessor{msg: v.ProtoReflect()}
	case protoreflect.Message:
		return protoAccessor{msg: v}
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return emptyAccessor{}
		}
		if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct {
			return structAccessor{ptr: rv, val: rv.Elem()}
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return structAccessor{val: rv}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return reflectMapAccessor{rv}
		}
	}
	return emptyAccessor{}
}

type emptyAccessor struct{}

func (emptyAccessor) Get(string) (any, bool, error) { return nil, false, nil }

type mapAccessor map[string]any

func (m mapAccessor) Get(name string) (any, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

type reflectMapAccessor struct {
	m reflect.Value
}

func (a reflectMapAccessor) Get(name string) (any, bool, error) {
	v := a.m.MapIndex(reflect.ValueOf(name).Convert(a.m.Type().Key()))
	if !v.IsValid() {
		return nil, false, nil
	}
	return v.Interface(), true, nil
}

// structAccessor looks up, in order, a field tagged `graphql:"name"`, an
// exported field named after the attribute in CamelCase (embedded structs
// included), and an exported method of that name taking no arguments and
// returning a value and optionally an error.
type structAccessor struct {
	ptr reflect.Value
	val reflect.Value
}

type structMember struct {
	index  []int
	method string
}

var structMembers sync.Map // structMemberKey -> *structMember (nil when absent)

type structMemberKey struct {
	typ  reflect.Type
	name string
}

func (a structAccessor) Get(name string) (any, bool, error) {
	m := lookupStructMember(a.val.Type(), name)
	if m == nil {
		return nil, false, nil
	}
	if m.method == "" {
		fv, err := a.val.FieldByIndexErr(m.index)
		if err != nil {
			// nil embedded pointer on the way to the field
			return nil, true, nil
		}
		return fv.Interface(), true, nil
	}

	method := a.val.MethodByName(m.method)
	if !method.IsValid() && a.ptr.IsValid() {
		method = a.ptr.MethodByName(m.method)
	}
	if !method.IsValid() {
		return nil, false, nil
	}
	out := method.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, true, out[1].Interface().(error)
	}
	return out[0].Interface(), true, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func lookupStructMember(t reflect.Type, name string) *structMember {
	key := structMemberKey{typ: t, name: name}
	if v, ok := structMembers.Load(key); ok {
		return v.(*structMember)
	}
	m := findStructMember(t, name)
	structMembers.Store(key, m)
	return m
}

func findStructMember(t reflect.Type, name string) *structMember {
	camel := strcase.CamelCase(name)

	type level struct {
		t     reflect.Type
		index []int
	}
	queue := []level{{t: t}}
	seen := map[reflect.Type]bool{t: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := 0; i < cur.t.NumField(); i++ {
			sf := cur.t.Field(i)
			index := append(append([]int(nil), cur.index...), i)
			if sf.Anonymous {
				et := sf.Type
				if et.Kind() == reflect.Pointer {
					et = et.Elem()
				}
				if et.Kind() == reflect.Struct {
					if !seen[et] {
						seen[et] = true
						queue = append(queue, level{t: et, index: index})
					}
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}
			if tag, _, _ := strings.Cut(sf.Tag.Get("graphql"), ","); tag == name {
				return &structMember{index: index}
			}
		}
		if sf, ok := cur.t.FieldByName(camel); ok && sf.IsExported() && len(sf.Index) == 1 {
			return &structMember{index: append(append([]int(nil), cur.index...), sf.Index[0])}
		}
	}

	for _, mt := range []reflect.Type{t, reflect.PointerTo(t)} {
		m, ok := mt.MethodByName(camel)
		if !ok {
			continue
		}
		ft := m.Type
		switch {
		case ft.NumIn() == 1 && ft.NumOut() == 1:
			return &structMember{method: camel}
		case ft.NumIn() == 1 && ft.NumOut() == 2 && ft.Out(1) == errorType:
			return &structMember{method: camel}
		}
	}
	return nil
}

// protoAccessor reads message fields by proto name, then by JSON name.
// Unset message fields read as nil; scalars read their (default) value.
type protoAccessor struct {
	msg protoreflect.Message
}

func (a protoAccessor) Get(name string) (any, bool, error) {
	fields := a.msg.Descriptor().Fields()
	fd := fields.ByName(protoreflect.Name(name))
	if fd == nil {
		fd = fields.ByJSONName(name)
	}
	if fd == nil {
		return nil, false, nil
	}
	if fd.HasPresence() && !a.msg.Has(fd) {
		return nil, true, nil
	}
	v := a.msg.Get(fd)
	switch {
	case fd.IsList():
		lst := v.List()
		out := make([]any, lst.Len())
		for i := range out {
			out[i] = protoValue(fd, lst.Get(i))
		}
		return out, true, nil
	case fd.IsMap():
		mp := v.Map()
		out := make(map[string]any, mp.Len())
		mp.Range(func(k protoreflect.MapKey, mv protoreflect.Value) bool {
			out[k.String()] = protoValue(fd.MapValue(), mv)
			return true
		})
		return out, true, nil
	}
	return protoValue(fd, v), true, nil
}

// protoValue converts a singular protobuf value into a Go value the
// scalars and accessors understand.
func protoValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return v.Bool()
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return int32(v.Int())
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return v.Int()
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return uint32(v.Uint())
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return v.Uint()
	case protoreflect.FloatKind:
		return float32(v.Float())
	case protoreflect.DoubleKind:
		return v.Float()
	case protoreflect.StringKind:
		return v.String()
	case protoreflect.BytesKind:
		return v.Bytes()
	case protoreflect.EnumKind:
		if ev := fd.Enum().Values().ByNumber(v.Enum()); ev != nil {
			return string(ev.Name())
		}
		return int32(v.Enum())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return v.Message().Interface()
	}
	return nil
}
