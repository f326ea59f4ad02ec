package types

// Option configures a Field or an Argument. Options that do not apply to the
// value being built are ignored.
type Option func(*settings)

type settings struct {
	name              string
	description       string
	deprecationReason string
	source            string
	required          bool
	args              Attrs
	resolver          ResolverFunc
	defaultValue      any
	hasDefault        bool
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// WithName sets the schema name explicitly. Explicit names are used as given
// and never camel-cased.
func WithName(name string) Option { return func(s *settings) { s.name = name } }

func WithDescription(description string) Option {
	return func(s *settings) { s.description = description }
}

func WithDeprecationReason(reason string) Option {
	return func(s *settings) { s.deprecationReason = reason }
}

// Required wraps the declared type in NonNull. It has no effect on a type
// that is already non-null.
func Required() Option { return func(s *settings) { s.required = true } }

// WithArgs declares field arguments. Values are *Argument or UnmountedType;
// later calls append.
func WithArgs(args Attrs) Option {
	return func(s *settings) { s.args = append(s.args, args...) }
}

// WithResolver sets an explicit field resolver.
func WithResolver(fn ResolverFunc) Option { return func(s *settings) { s.resolver = fn } }

// WithSource makes the default resolver read attribute name from the parent
// value instead of the field's own name.
func WithSource(name string) Option { return func(s *settings) { s.source = name } }

// WithDefault sets an argument's default value.
func WithDefault(value any) Option {
	return func(s *settings) {
		s.defaultValue = value
		s.hasDefault = true
	}
}
