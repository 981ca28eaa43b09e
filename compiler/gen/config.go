package gen

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file read by the command line tool.
const DefaultConfigFile = "dbcmd.yaml"

// Config holds the global code generation settings.
type Config struct {
	// Naming is the default naming policy of declarations that do not set
	// their own.
	Naming NamingPolicy
	// Header is an extra comment placed above the generated-code marker of
	// every file, e.g. a license notice.
	Header string
	// Workers bounds the number of declarations compiled concurrently.
	// Zero means GOMAXPROCS.
	Workers int
	// Cache memoizes rendered files between runs. Nil disables caching.
	Cache Cache
	// BuildFlags are passed to the package loader.
	BuildFlags []string
	// Patterns are the package patterns compiled when none are given.
	Patterns []string
}

// workers returns the effective worker count.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FileConfig is the YAML form of Config:
//
//	naming: snake_case
//	header: "Copyright 2026 Acme Corp."
//	workers: 4
//	cache_dir: .dbcmd/cache
//	build_flags: ["-tags=integration"]
//	packages: ["./internal/..."]
type FileConfig struct {
	Naming     string   `yaml:"naming"`
	Header     string   `yaml:"header"`
	Workers    int      `yaml:"workers"`
	CacheDir   string   `yaml:"cache_dir"`
	BuildFlags []string `yaml:"build_flags"`
	Packages   []string `yaml:"packages"`
}

// LoadConfigFile reads a FileConfig from path.
func LoadConfigFile(path string) (*FileConfig, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewConfigError("ConfigFile", path, "file does not exist")
		}
		return nil, err
	}
	fc := &FileConfig{}
	if err := yaml.Unmarshal(buf, fc); err != nil {
		return nil, NewConfigError("ConfigFile", path, fmt.Sprintf("invalid yaml: %v", err))
	}
	return fc, nil
}

// Options converts the file settings into options. Unset settings produce
// no option, so options applied afterwards keep their effect.
func (fc *FileConfig) Options() []Option {
	var opts []Option
	if fc.Naming != "" {
		opts = append(opts, WithNamingName(fc.Naming))
	}
	if fc.Header != "" {
		opts = append(opts, WithHeader(fc.Header))
	}
	if fc.Workers != 0 {
		opts = append(opts, WithWorkers(fc.Workers))
	}
	if fc.CacheDir != "" {
		opts = append(opts, WithCacheDir(fc.CacheDir))
	}
	if len(fc.BuildFlags) > 0 {
		opts = append(opts, WithBuildFlags(fc.BuildFlags...))
	}
	if len(fc.Packages) > 0 {
		opts = append(opts, WithPatterns(fc.Packages...))
	}
	return opts
}
