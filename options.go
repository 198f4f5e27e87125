package scopes

// RegisterOption is a modifier for Register, RegisterLazy, Replace, and
// ReplaceLazy calls.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	tag      string
	disposer func(value any)
	alias    bool
}

func newRegisterConfig(opts []RegisterOption) registerConfig {
	cfg := registerConfig{alias: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTag registers the value under a secondary key so several registrations
// of the same type can coexist in one scope. The empty tag is the untagged
// default.
func WithTag(tag string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.tag = tag
	}
}

// WithDisposer attaches a callback invoked with the materialized value
// exactly once, at eviction or scope closure. It never runs for a lazy
// element whose producer was never triggered.
func WithDisposer(fn func(value any)) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.disposer = fn
	}
}

// WithoutRuntimeAlias suppresses the runtime-type alias entry that Register
// normally adds when the value's concrete type differs from the declared type
// key. Lazy registrations never alias, so the option has no effect there.
func WithoutRuntimeAlias() RegisterOption {
	return func(cfg *registerConfig) {
		cfg.alias = false
	}
}

// LookupOption is a modifier for Find, Evict, ContainsLocal, and IsRegistered
// calls.
type LookupOption func(*lookupConfig)

type lookupConfig struct {
	tag   string
	exact bool
}

func newLookupConfig(opts []LookupOption) lookupConfig {
	var cfg lookupConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Tagged restricts the lookup to entries registered under the given tag.
func Tagged(tag string) LookupOption {
	return func(cfg *lookupConfig) {
		cfg.tag = tag
	}
}

// ExactType restricts Find to entries registered under the requested type as
// their declared key, at every level of the parent chain. Runtime-type alias
// entries do not match and the polymorphic scan over concrete registrations
// is disabled.
func ExactType() LookupOption {
	return func(cfg *lookupConfig) {
		cfg.exact = true
	}
}

// OpenOption is a modifier for Open calls.
type OpenOption func(*openConfig)

type openConfig struct {
	parent     *Scope
	parentName string
}

// WithParent attaches the new scope to an explicit parent. It takes
// precedence over WithParentName.
func WithParent(parent *Scope) OpenOption {
	return func(cfg *openConfig) {
		cfg.parent = parent
	}
}

// WithParentName attaches the new scope to the scope with the given name,
// located from the root of the tree Open was called on. If no scope matches,
// the root itself is used.
func WithParentName(name string) OpenOption {
	return func(cfg *openConfig) {
		cfg.parentName = name
	}
}
