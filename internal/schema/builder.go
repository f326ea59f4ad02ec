package schema

// NewSchema returns an empty schema carrying the built-in scalars and the
// @include/@skip directives.
func NewSchema(description string) *Schema {
	s := &Schema{
		Types:       make(map[string]*Type),
		Directives:  make(map[string]*Directive),
		Description: description,
	}
	s.AddType(stringType).
		AddType(intType).
		AddType(floatType).
		AddType(booleanType).
		AddType(idType)
	s.AddDirective(includeDirective).
		AddDirective(skipDirective)
	return s
}

func (s *Schema) SetQueryType(name string) *Schema        { s.QueryType = name; return s }
func (s *Schema) SetMutationType(name string) *Schema     { s.MutationType = name; return s }
func (s *Schema) SetSubscriptionType(name string) *Schema { s.SubscriptionType = name; return s }

// AddType registers t under its name, replacing any previous definition.
func (s *Schema) AddType(t *Type) *Schema {
	if s.Types == nil {
		s.Types = make(map[string]*Type)
	}
	s.Types[t.Name] = t
	return s
}

func (s *Schema) AddDirective(d *Directive) *Schema {
	if s.Directives == nil {
		s.Directives = make(map[string]*Directive)
	}
	s.Directives[d.Name] = d
	return s
}

// IsBuiltin reports whether t is one of the specified scalars shared by every schema.
func IsBuiltin(t *Type) bool {
	switch t {
	case stringType, intType, floatType, booleanType, idType:
		return true
	}
	return false
}

// BuiltinScalar returns the shared definition of a specified scalar, or nil.
func BuiltinScalar(name string) *Type {
	switch name {
	case "String":
		return stringType
	case "Int":
		return intType
	case "Float":
		return floatType
	case "Boolean":
		return booleanType
	case "ID":
		return idType
	}
	return nil
}

func NewType(name string, kind TypeKind, description string) *Type {
	return &Type{Name: name, Kind: kind, Description: description}
}

func (t *Type) AddField(f *Field) *Type {
	t.Fields = append(t.Fields, f)
	return t
}

func (t *Type) AddInterface(name string) *Type {
	t.Interfaces = append(t.Interfaces, name)
	return t
}

func (t *Type) AddPossibleType(name string) *Type {
	t.PossibleTypes = append(t.PossibleTypes, name)
	return t
}

func (t *Type) AddEnumValue(v *EnumValue) *Type {
	t.EnumValues = append(t.EnumValues, v)
	return t
}

func (t *Type) AddInputField(v *InputValue) *Type {
	t.InputFields = append(t.InputFields, v)
	return t
}

func (t *Type) SetOneOf(oneOf bool) *Type {
	t.OneOf = oneOf
	return t
}

// Implements reports whether t lists iface among its interfaces.
func (t *Type) Implements(iface string) bool {
	for _, name := range t.Interfaces {
		if name == iface {
			return true
		}
	}
	return false
}

// GetOrderedFields returns fields in declaration order.
func (t *Type) GetOrderedFields() []*Field { return t.Fields }

// GetOrderedInputFields returns input fields in declaration order.
func (t *Type) GetOrderedInputFields() []*InputValue { return t.InputFields }

// NewFieldMap collects fields for a Type literal.
func NewFieldMap(fields ...*Field) []*Field { return fields }

func NewField(name, description string, typ *TypeRef) *Field {
	return &Field{Name: name, Description: description, Type: typ}
}

func (f *Field) SetAsync(async bool) *Field {
	f.Async = async
	return f
}

func (f *Field) Deprecate(reason string) *Field {
	f.IsDeprecated = true
	f.DeprecationReason = reason
	return f
}

func (f *Field) AddArgument(v *InputValue) *Field {
	f.Arguments = append(f.Arguments, v)
	return f
}

// GetOrderedArguments returns arguments in declaration order.
func (f *Field) GetOrderedArguments() []*InputValue { return f.Arguments }

func NewInputValue(name, description string, typ *TypeRef) *InputValue {
	return &InputValue{Name: name, Description: description, Type: typ}
}

func (v *InputValue) SetDefault(value any) *InputValue {
	v.DefaultValue = value
	return v
}

func (v *InputValue) Deprecate(reason string) *InputValue {
	v.IsDeprecated = true
	v.DeprecationReason = reason
	return v
}

func NewEnumValue(name, description string) *EnumValue {
	return &EnumValue{Name: name, Description: description}
}

func (v *EnumValue) Deprecate(reason string) *EnumValue {
	v.IsDeprecated = true
	v.DeprecationReason = reason
	return v
}
