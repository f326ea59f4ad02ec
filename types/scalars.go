package types

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Scalar is a leaf type. Serialize converts resolved Go values into JSON-safe
// output; ParseValue converts coerced argument values before they reach a
// resolver.
type Scalar struct {
	name        string
	description string
	serialize   func(value any) (any, error)
	parseValue  func(value any) (any, error)
	builtin     bool
}

// ScalarConfig declares a custom scalar.
type ScalarConfig struct {
	Name        string
	Description string
	// Serialize converts a resolved value to its output representation.
	// Values are passed through when nil.
	Serialize func(value any) (any, error)
	// ParseValue converts an input value to the representation resolvers
	// receive. Values are passed through when nil.
	ParseValue func(value any) (any, error)
}

// NewScalar declares a custom scalar.
func NewScalar(cfg ScalarConfig) (*Scalar, error) {
	if cfg.Name == "" {
		return nil, declErrorf("", "scalar name is required")
	}
	if builtinScalars[cfg.Name] != nil {
		return nil, declErrorf(cfg.Name, "cannot redeclare a built-in scalar")
	}
	return &Scalar{
		name:        cfg.Name,
		description: cfg.Description,
		serialize:   cfg.Serialize,
		parseValue:  cfg.ParseValue,
	}, nil
}

// MustNewScalar is like NewScalar but panics on error.
func MustNewScalar(cfg ScalarConfig) *Scalar {
	s, err := NewScalar(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Scalar) Name() string        { return s.name }
func (s *Scalar) Description() string { return s.description }
func (s *Scalar) String() string      { return s.name }
func (s *Scalar) GetType() Type       { return s }
func (*Scalar) isType()               {}

// Serialize converts a resolved value to its output representation.
func (s *Scalar) Serialize(value any) (any, error) {
	if value == nil || s.serialize == nil {
		return value, nil
	}
	return s.serialize(value)
}

// ParseValue converts a coerced input value for resolvers.
func (s *Scalar) ParseValue(value any) (any, error) {
	if value == nil || s.parseValue == nil {
		return value, nil
	}
	return s.parseValue(value)
}

var (
	String = &Scalar{
		name:        "String",
		description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
		serialize:   serializeString,
		builtin:     true,
	}
	Int = &Scalar{
		name:        "Int",
		description: "The `Int` scalar type represents non-fractional signed whole numeric values.",
		serialize:   serializeInt,
		builtin:     true,
	}
	Float = &Scalar{
		name:        "Float",
		description: "The `Float` scalar type represents signed double-precision fractional values.",
		serialize:   serializeFloat,
		builtin:     true,
	}
	Boolean = &Scalar{
		name:        "Boolean",
		description: "The `Boolean` scalar type represents `true` or `false`.",
		serialize:   serializeBoolean,
		builtin:     true,
	}
	ID = &Scalar{
		name:        "ID",
		description: "The `ID` scalar type represents a unique identifier.",
		serialize:   serializeID,
		builtin:     true,
	}
)

var builtinScalars = map[string]*Scalar{
	"String":  String,
	"Int":     Int,
	"Float":   Float,
	"Boolean": Boolean,
	"ID":      ID,
}

// DateTime is an RFC 3339 timestamp. It serializes time.Time and protobuf
// Timestamp values and parses string input into time.Time.
var DateTime = MustNewScalar(ScalarConfig{
	Name:        "DateTime",
	Description: "An RFC 3339 date-time string.",
	Serialize:   serializeDateTime,
	ParseValue:  parseDateTime,
})

// indirect dereferences pointers, reporting false for a nil pointer.
func indirect(value any) (reflect.Value, bool) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return rv, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

func isNilPointer(value any) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func serializeString(value any) (any, error) {
	if isNilPointer(value) {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return base64.StdEncoding.EncodeToString(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	rv, ok := indirect(value)
	if !ok {
		return nil, nil
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	}
	return nil, fmt.Errorf("String cannot represent value: %v", value)
}

func serializeInt(value any) (any, error) {
	rv, ok := indirect(value)
	if !ok {
		return nil, nil
	}
	var n int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt32 {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %v", value)
		}
		n = int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)
		}
		n = int64(f)
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	default:
		return nil, fmt.Errorf("Int cannot represent value: %v", value)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %v", value)
	}
	return int(n), nil
}

func serializeFloat(value any) (any, error) {
	rv, ok := indirect(value)
	if !ok {
		return nil, nil
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %v", value)
		}
		return f, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return nil, fmt.Errorf("Float cannot represent value: %v", value)
}

func serializeBoolean(value any) (any, error) {
	rv, ok := indirect(value)
	if !ok {
		return nil, nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent value: %v", value)
}

func serializeID(value any) (any, error) {
	if isNilPointer(value) {
		return nil, nil
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String(), nil
	}
	rv, ok := indirect(value)
	if !ok {
		return nil, nil
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", value)
}

func serializeDateTime(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Format(time.RFC3339Nano), nil
	case *timestamppb.Timestamp:
		if v == nil {
			return nil, nil
		}
		if err := v.CheckValid(); err != nil {
			return nil, fmt.Errorf("DateTime cannot represent value: %w", err)
		}
		return v.AsTime().Format(time.RFC3339Nano), nil
	case proto.Message:
		if isNilPointer(v) {
			return nil, nil
		}
		t, err := timestampFromMessage(v)
		if err != nil {
			return nil, err
		}
		return t.Format(time.RFC3339Nano), nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("DateTime cannot represent value: %q", v)
		}
		return t.Format(time.RFC3339Nano), nil
	}
	return nil, fmt.Errorf("DateTime cannot represent value: %v", value)
}

// timestampFromMessage reads a google.protobuf.Timestamp held in any message
// implementation, such as a dynamicpb.Message.
func timestampFromMessage(m proto.Message) (time.Time, error) {
	msg := m.ProtoReflect()
	desc := msg.Descriptor()
	if desc.FullName() != "google.protobuf.Timestamp" {
		return time.Time{}, fmt.Errorf("DateTime cannot represent message %s", desc.FullName())
	}
	seconds := msg.Get(desc.Fields().ByName("seconds")).Int()
	nanos := msg.Get(desc.Fields().ByName("nanos")).Int()
	return time.Unix(seconds, nanos).UTC(), nil
}

func parseDateTime(value any) (any, error) {
	switch v := value.(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("DateTime cannot parse %q: %w", v, err)
		}
		return t, nil
	case time.Time:
		return v, nil
	}
	return nil, fmt.Errorf("DateTime cannot parse value: %v", value)
}
