package gen

import "errors"

// Option configures code generation.
type Option func(*Config) error

// WithNaming sets the default naming policy.
// Declarations with their own naming directive keep it.
func WithNaming(p NamingPolicy) Option {
	return func(c *Config) error {
		switch p {
		case NamingUnset, NamingIdentity, NamingSnakeCase:
			c.Naming = p
			return nil
		default:
			return NewConfigError("Naming", p, "unsupported naming policy")
		}
	}
}

// WithNamingName sets the default naming policy by name.
// Supported names: "unset", "identity", "snake_case".
func WithNamingName(name string) Option {
	return func(c *Config) error {
		p, err := ParseNamingPolicy(name)
		if err != nil {
			return NewConfigError("Naming", name, "unsupported naming policy; use unset, identity or snake_case")
		}
		c.Naming = p
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of declarations compiled in parallel.
// Zero restores the default of GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "must not be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithCache sets the cache of rendered files.
func WithCache(cache Cache) Option {
	return func(c *Config) error {
		if cache == nil {
			return NewConfigError("Cache", nil, "cache cannot be nil")
		}
		c.Cache = cache
		return nil
	}
}

// WithCacheDir caches rendered files in dir.
func WithCacheDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("CacheDir", nil, "cache directory cannot be empty")
		}
		c.Cache = NewDirCache(dir)
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading declaration packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithPatterns sets the default package patterns.
func WithPatterns(patterns ...string) Option {
	return func(c *Config) error {
		if len(patterns) == 0 {
			return NewConfigError("Patterns", nil, "at least one package pattern is required")
		}
		c.Patterns = patterns
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
