// Package config loads the YAML file that describes a collection deployment.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/cryptea/internal/catalog"
	"github.com/KirkDiggler/cryptea/internal/compositor"
	"github.com/KirkDiggler/cryptea/internal/errors"
)

// Storage backends
const (
	StorageFS = "fs"
	StorageS3 = "s3"
)

// Config is the full server configuration
type Config struct {
	Collection CollectionConfig `yaml:"collection"`
	Render     RenderConfig     `yaml:"render"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
}

// CollectionConfig locates the collection's assets and catalog
type CollectionConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// AssetsRoot holds one directory per collection
	AssetsRoot string `yaml:"assets_root"`
	// CatalogPath defaults to the builder's output inside the collection
	CatalogPath string `yaml:"catalog_path"`
	// LayerOrder defaults to the catalog's category order
	LayerOrder []string `yaml:"layer_order"`
}

// RenderConfig controls composition
type RenderConfig struct {
	CanvasSize    int    `yaml:"canvas_size"`
	Format        string `yaml:"format"`
	JPEGQuality   int    `yaml:"jpeg_quality"`
	MaxConcurrent int64  `yaml:"max_concurrent"`
}

// SessionConfig controls editor sessions
type SessionConfig struct {
	TTL            time.Duration `yaml:"ttl"`
	ComposeTimeout time.Duration `yaml:"compose_timeout"`
	CleanupTimeout time.Duration `yaml:"cleanup_timeout"`
}

// RedisConfig selects the session store. No addresses means sessions live
// in process memory.
type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	PoolSize int      `yaml:"pool_size"`
	UseTLS   bool     `yaml:"use_tls"`

	// TLSSkipVerify accepts self-signed certificates
	TLSSkipVerify bool `yaml:"tls_skip_verify"`
}

// StorageConfig selects where published artifacts go
type StorageConfig struct {
	Backend string          `yaml:"backend"`
	FS      FSStorageConfig `yaml:"fs"`
	S3      S3StorageConfig `yaml:"s3"`
}

// FSStorageConfig configures the filesystem store
type FSStorageConfig struct {
	Root string `yaml:"root"`
}

// S3StorageConfig configures the S3 store
type S3StorageConfig struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`
}

// ServerConfig holds the listen ports
type ServerConfig struct {
	GRPCPort        int           `yaml:"grpc_port"`
	HTTPPort        int           `yaml:"http_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns a config with every default filled in
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// Load reads a YAML config file over the defaults and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ScanFailure(path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.InvalidArgumentf("invalid config: %v", err)
	}
	cfg.defaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) defaults() {
	if c.Collection.AssetsRoot == "" {
		c.Collection.AssetsRoot = "assets"
	}
	if c.Render.CanvasSize == 0 {
		c.Render.CanvasSize = compositor.DefaultCanvasSize
	}
	if c.Render.Format == "" {
		c.Render.Format = string(compositor.FormatJPEG)
	}
	if c.Render.JPEGQuality == 0 {
		c.Render.JPEGQuality = compositor.DefaultJPEGQuality
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 30 * time.Minute
	}
	if c.Session.ComposeTimeout == 0 {
		c.Session.ComposeTimeout = 2 * time.Minute
	}
	if c.Session.CleanupTimeout == 0 {
		c.Session.CleanupTimeout = 30 * time.Second
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageFS
	}
	if c.Storage.Backend == StorageFS && c.Storage.FS.Root == "" {
		c.Storage.FS.Root = "artifacts"
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 50051
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("collection.name", c.Collection.Name, vb)
	errors.ValidateRange("render.canvas_size", c.Render.CanvasSize, 1, compositor.MaxCanvasSize, vb)
	errors.ValidateRange("render.jpeg_quality", c.Render.JPEGQuality, 1, 100, vb)
	if _, err := compositor.ParseFormat(c.Render.Format); err != nil {
		vb.Field("render.format", errors.GetMessage(err))
	}
	if c.Render.MaxConcurrent < 0 {
		vb.Field("render.max_concurrent", "must not be negative")
	}
	if c.Session.TTL < 0 {
		vb.Field("session.ttl", "must not be negative")
	}

	seen := make(map[string]bool, len(c.Collection.LayerOrder))
	for _, category := range c.Collection.LayerOrder {
		if seen[category] {
			vb.Fieldf("collection.layer_order", "category %q listed twice", category)
		}
		seen[category] = true
	}

	errors.ValidateEnum("storage.backend", c.Storage.Backend, []string{StorageFS, StorageS3}, vb)
	switch c.Storage.Backend {
	case StorageFS:
		errors.ValidateRequired("storage.fs.root", c.Storage.FS.Root, vb)
	case StorageS3:
		errors.ValidateRequired("storage.s3.bucket", c.Storage.S3.Bucket, vb)
	}

	errors.ValidateRange("server.grpc_port", c.Server.GRPCPort, 1, 65535, vb)
	errors.ValidateRange("server.http_port", c.Server.HTTPPort, 1, 65535, vb)

	return vb.Build()
}

// CollectionPath is the directory holding the collection's categories
func (c *Config) CollectionPath() string {
	return filepath.Join(c.Collection.AssetsRoot, c.Collection.Name)
}

// CatalogPath is where the built catalog document is read from
func (c *Config) CatalogPath() string {
	if c.Collection.CatalogPath != "" {
		return c.Collection.CatalogPath
	}
	jsonPath, _ := catalog.OutputPaths(c.CollectionPath(), c.Collection.Name)
	return jsonPath
}
