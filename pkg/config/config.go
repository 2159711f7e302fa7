// Package config reads erwd.toml.
//
// The file lives in the project directory next to the widgets file:
//
//	[layout]
//	max_width = 1920
//	width_algorithm = "left-first"
//	arrangement = "min-height"
//	workers = 0
//
//	[flex]
//	max_iterations = 10000
//	tolerance = 1e-4
//
//	[cache]
//	backend = "file"
//	dir = ""
//	redis_addr = "localhost:6379"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "erwd"
//
//	[serve]
//	addr = ":8080"
//
// Every key is optional. Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/erwd/pkg/cache"
	"github.com/matzehuels/erwd/pkg/core/width"
	"github.com/matzehuels/erwd/pkg/errors"
	"github.com/matzehuels/erwd/pkg/pipeline"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "erwd.toml"

// Defaults for values the pipeline does not own.
const (
	DefaultAddr          = ":8080"
	DefaultRedisAddr     = "localhost:6379"
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "erwd"
)

// Config is the decoded configuration file.
type Config struct {
	Layout Layout `toml:"layout"`
	Flex   Flex   `toml:"flex"`
	Cache  Cache  `toml:"cache"`
	Serve  Serve  `toml:"serve"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Layout selects the layout algorithms.
type Layout struct {
	MaxWidth       int    `toml:"max_width"`
	WidthAlgorithm string `toml:"width_algorithm"`
	Arrangement    string `toml:"arrangement"`
	Workers        int    `toml:"workers"`
}

// Flex bounds the flex-dag allocator.
type Flex struct {
	MaxIterations int     `toml:"max_iterations"`
	Tolerance     float64 `toml:"tolerance"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Serve configures the HTTP service.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Layout: Layout{
			MaxWidth:       pipeline.DefaultMaxWidth,
			WidthAlgorithm: pipeline.DefaultWidthAlgorithm,
			Arrangement:    pipeline.DefaultArrangement,
		},
		Flex: Flex{
			MaxIterations: width.DefaultMaxIterations,
			Tolerance:     width.DefaultTolerance,
		},
		Cache: Cache{
			Backend:       cache.BackendFile,
			RedisAddr:     DefaultRedisAddr,
			MongoURI:      DefaultMongoURI,
			MongoDatabase: DefaultMongoDatabase,
		},
		Serve: Serve{Addr: DefaultAddr},
	}
}

// Load decodes the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %s", path, undecoded[0])
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Find loads explicit if it is set. Otherwise it loads FileName from dir,
// falling back to the defaults when dir has none.
func Find(dir, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.PipelineOptions().ValidateForCompute(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone, cache.BackendRedis, cache.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend: %q (must be one of: file, none, redis, mongo)", c.Cache.Backend)
	}
	if c.Serve.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "serve addr cannot be empty")
	}
	return nil
}

// PipelineOptions returns the layout options of c.
func (c *Config) PipelineOptions() *pipeline.Options {
	return &pipeline.Options{
		MaxWidth:       c.Layout.MaxWidth,
		WidthAlgorithm: c.Layout.WidthAlgorithm,
		Arrangement:    c.Layout.Arrangement,
		Workers:        c.Layout.Workers,
		MaxIterations:  c.Flex.MaxIterations,
		Tolerance:      c.Flex.Tolerance,
	}
}

// CacheOptions returns the cache backend options of c.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		RedisAddr:     c.Cache.RedisAddr,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}
}
