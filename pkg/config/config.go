// Package config loads mazeroute settings from TOML or YAML files.
//
// The file format follows the extension: .toml, or .yaml and .yml. Keys
// the schema does not know are rejected so that typos surface early.
// Values are checked with struct tags after decoding:
//
//	[solver]
//	frontier = "heap"
//	entrance_weight = "measured"
//
//	[render]
//	scale = 8
//	palette = "blueprint"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Command-line flags override whatever the file sets.
package config

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mazeroute/pkg/cache"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
)

// MaxFileSize bounds a config file.
const MaxFileSize = 1 << 20

// Config is the complete set of file-backed settings.
type Config struct {
	Solver Solver `toml:"solver" yaml:"solver"`
	Render Render `toml:"render" yaml:"render"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
	Server Server `toml:"server" yaml:"server"`
	Log    Log    `toml:"log" yaml:"log"`
}

// Solver configures graph construction and search.
type Solver struct {
	Frontier       string `toml:"frontier" yaml:"frontier" validate:"omitempty,oneof=sorted heap"`
	EntranceWeight string `toml:"entrance_weight" yaml:"entrance_weight" validate:"omitempty,oneof=unit measured"`
	Threshold      int    `toml:"threshold" yaml:"threshold" validate:"gte=0,lte=255"`
	Verify         bool   `toml:"verify" yaml:"verify"`
}

// Render configures the output images.
type Render struct {
	Scale     int    `toml:"scale" yaml:"scale" validate:"gte=1,lte=32"`
	Palette   string `toml:"palette" yaml:"palette" validate:"omitempty,oneof=classic blueprint mono"`
	OutputDir string `toml:"output_dir" yaml:"output_dir"`
	NodesName string `toml:"nodes_name" yaml:"nodes_name" validate:"required"`
	PathName  string `toml:"path_name" yaml:"path_name" validate:"required"`
}

// Cache configures where solutions and images are cached.
type Cache struct {
	Backend         string   `toml:"backend" yaml:"backend" validate:"oneof=file redis mongo none"`
	Dir             string   `toml:"dir" yaml:"dir"`
	TTL             Duration `toml:"ttl" yaml:"ttl"`
	RedisURL        string   `toml:"redis_url" yaml:"redis_url" validate:"required_if=Backend redis"`
	MongoURI        string   `toml:"mongo_uri" yaml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string   `toml:"mongo_database" yaml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection" yaml:"mongo_collection"`
}

// Options converts the section into cache.Open arguments.
func (c Cache) Options() cache.Options {
	return cache.Options{
		Backend:         cache.Backend(c.Backend),
		Dir:             c.Dir,
		RedisURL:        c.RedisURL,
		MongoURI:        c.MongoURI,
		MongoDatabase:   c.MongoDatabase,
		MongoCollection: c.MongoCollection,
	}
}

// Server configures `mazeroute serve`.
type Server struct {
	Addr           string   `toml:"addr" yaml:"addr" validate:"required"`
	MaxUploadBytes int64    `toml:"max_upload_bytes" yaml:"max_upload_bytes" validate:"gt=0"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
}

// Log configures diagnostics written to stderr.
type Log struct {
	Level  string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" yaml:"format" validate:"oneof=text logfmt json"`
}

// Duration is a time.Duration written as a string such as "30s" or "72h".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %s", text)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Solver: Solver{Frontier: "sorted", EntranceWeight: "unit"},
		Render: Render{Scale: 1, Palette: "classic", NodesName: "Nodes.png", PathName: "Path.png"},
		Cache:  Cache{Backend: string(cache.BackendFile), TTL: Duration{cache.SolutionTTL}},
		Server: Server{Addr: ":8080", MaxUploadBytes: 8 << 20, ReadTimeout: Duration{30 * time.Second}},
		Log:    Log{Level: "info", Format: "text"},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and the output names.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid config")
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "server.addr")
	}
	for _, name := range []string{c.Render.NodesName, c.Render.PathName} {
		if err := errs.ValidateOutputName(name); err != nil {
			return err
		}
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/mazeroute/config.toml, falling back
// to the user config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		d, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, "mazeroute", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path loads
// DefaultPath, and a missing default file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !explicit {
				return cfg, nil
			}
			return cfg, errs.New(errs.ErrCodeFileNotFound, "config not found: %s", path)
		}
		return cfg, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := Decode(f, formatOf(path), &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Format is a config file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode merges the document in r into cfg.
func Decode(r io.Reader, format Format, cfg *Config) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if len(data) > MaxFileSize {
		return errs.New(errs.ErrCodeTooLarge, "config exceeds %d bytes", MaxFileSize)
	}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse yaml")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse toml")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return errs.New(errs.ErrCodeInvalidConfig, "unknown key %q", keys[0].String())
		}
	default:
		return errs.New(errs.ErrCodeUnsupported, "config format %q", format)
	}
	return nil
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, format Format, cfg Config) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	default:
		return errs.New(errs.ErrCodeUnsupported, "config format %q", format)
	}
}
