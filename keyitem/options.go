package keyitem

// DefaultMaxSubkeyRecursionDepth bounds how many "ri" levels the sub-keys
// walker will descend before giving up and reporting AdvisoryCorruption
// instead of continuing, per the redesign note in the hive-traversal design
// discussion: unbounded recursion over a hostile or cyclic hive is a denial
// of service.
const DefaultMaxSubkeyRecursionDepth = 32

// Options configures a KeyItem reader. Construct with NewOptions and zero or
// more With* functions.
type Options struct {
	MaxRecursionDepth  int
	ValueCacheCapacity int
	Tolerant           bool
}

// Option mutates an Options during construction.
type Option func(*Options)

// NewOptions builds an Options from the given With* functions, starting from
// sane defaults (recursion capped at DefaultMaxSubkeyRecursionDepth, a
// DefaultMaxValueCacheEntries-sized value cache, tolerant mode on).
func NewOptions(opts ...Option) Options {
	o := Options{
		MaxRecursionDepth:  DefaultMaxSubkeyRecursionDepth,
		ValueCacheCapacity: DefaultMaxValueCacheEntries,
		Tolerant:           true,
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// WithMaxRecursionDepth overrides the ri-descent depth cap.
func WithMaxRecursionDepth(n int) Option {
	return func(o *Options) { o.MaxRecursionDepth = n }
}

// WithValueCacheCapacity overrides the per-item value cache size.
func WithValueCacheCapacity(n int) Option {
	return func(o *Options) { o.ValueCacheCapacity = n }
}

// WithTolerant controls whether AdvisoryCorruption conditions are tolerated
// (continue, flag CORRUPTED) or promoted to fatal errors. Non-tolerant mode
// exists for callers auditing a hive that must be byte-perfect.
func WithTolerant(tolerant bool) Option {
	return func(o *Options) { o.Tolerant = tolerant }
}
