package field

// Flag is a bit set of per-field behavior switches.
type Flag int

const (
	FlagRequired  Flag = 1 << iota // field must be present in attributes before save
	FlagReadOnly                   // typed assignment is rejected outright
	FlagWriteOnce                  // typed assignment is rejected once a value is present

	FlagNone Flag = 0 // no flags set
)

// Has reports whether all bits of other are set in f.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// Option customizes a Descriptor produced by Parse or one of the kind
// constructors.
type Option func(*Descriptor)

// WithName sets the canonical field name of the descriptor.
func WithName(name string) Option {
	return func(d *Descriptor) { d.Name = name }
}

// WithFlags sets the field behavior flags on the descriptor.
func WithFlags(flags Flag) Option {
	return func(d *Descriptor) { d.Flags |= flags }
}

// WithDefault configures an explicit default value. A configured default is
// materialized into the document when a loaded storage document lacks the
// field; kind defaults are only served on read.
func WithDefault(value any) Option {
	return func(d *Descriptor) {
		d.defaultValue = value
		d.defaultFn = nil
		d.hasDefault = true
	}
}

// WithDefaultFunc configures a producer invoked each time a default is
// required. The producer's results must pass the descriptor's Validate.
func WithDefaultFunc(fn func() any) Option {
	return func(d *Descriptor) {
		d.defaultFn = fn
		d.hasDefault = true
	}
}
