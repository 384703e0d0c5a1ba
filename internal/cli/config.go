package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/objectgrid/pkg/collection"
	"github.com/matzehuels/objectgrid/pkg/pipeline"
)

// Settings holds user configuration for all commands.
type Settings struct {
	Collection CollectionSettings `mapstructure:"collection"`
	Seed       uint64             `mapstructure:"seed"`
	Passes     int                `mapstructure:"passes"`
	Cache      CacheSettings      `mapstructure:"cache"`
	Serve      ServeSettings      `mapstructure:"serve"`
}

// CollectionSettings is the base collection config. Scene files and flags
// override it.
type CollectionSettings struct {
	Surface        string  `mapstructure:"surface"`
	Sort           string  `mapstructure:"sort"`
	Orient         string  `mapstructure:"orient"`
	Layout         string  `mapstructure:"layout"`
	Rows           int     `mapstructure:"rows"`
	CellWidth      float64 `mapstructure:"cell_width"`
	CellHeight     float64 `mapstructure:"cell_height"`
	Radius         float64 `mapstructure:"radius"`
	IgnoreInactive bool    `mapstructure:"ignore_inactive"`
}

// CacheSettings selects the layout cache backend.
type CacheSettings struct {
	Dir         string        `mapstructure:"dir"`
	RedisURL    string        `mapstructure:"redis_url"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// ServeSettings configures the HTTP server.
type ServeSettings struct {
	Addr         string        `mapstructure:"addr"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	d := collection.DefaultConfig()
	return Settings{
		Collection: CollectionSettings{
			Surface:        d.Surface.String(),
			Sort:           d.Sort.String(),
			Orient:         d.Orient.String(),
			Layout:         d.Layout.String(),
			Rows:           d.Rows,
			CellWidth:      d.CellWidth,
			CellHeight:     d.CellHeight,
			Radius:         d.Radius,
			IgnoreInactive: d.IgnoreInactive,
		},
		Seed:   pipeline.DefaultSeed,
		Passes: collection.DefaultPackPasses,
		Cache: CacheSettings{
			DialTimeout: 5 * time.Second,
		},
		Serve: ServeSettings{
			Addr:         "127.0.0.1:8080",
			MaxBodyBytes: 8 << 20,
			Timeout:      30 * time.Second,
		},
	}
}

// LoadSettings reads configuration from file and env. Env var overrides use
// prefix OBJECTGRID_, e.g. OBJECTGRID_COLLECTION_ROWS=4.
//
// path wins over $OBJECTGRID_CONFIG, which wins over
// ~/.config/objectgrid/config.toml. A missing default file is not an error;
// a missing explicit file is.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault("collection.surface", d.Collection.Surface)
	v.SetDefault("collection.sort", d.Collection.Sort)
	v.SetDefault("collection.orient", d.Collection.Orient)
	v.SetDefault("collection.layout", d.Collection.Layout)
	v.SetDefault("collection.rows", d.Collection.Rows)
	v.SetDefault("collection.cell_width", d.Collection.CellWidth)
	v.SetDefault("collection.cell_height", d.Collection.CellHeight)
	v.SetDefault("collection.radius", d.Collection.Radius)
	v.SetDefault("collection.ignore_inactive", d.Collection.IgnoreInactive)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("passes", d.Passes)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.redis_prefix", d.Cache.RedisPrefix)
	v.SetDefault("cache.dial_timeout", d.Cache.DialTimeout)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.max_body_bytes", d.Serve.MaxBodyBytes)
	v.SetDefault("serve.timeout", d.Serve.Timeout)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("OBJECTGRID_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("OBJECTGRID")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return s, nil
}

// Config parses the settings into a collection config.
func (s CollectionSettings) Config() (collection.Config, error) {
	var (
		cfg collection.Config
		err error
	)
	if cfg.Surface, err = collection.ParseSurfaceType(s.Surface); err != nil {
		return cfg, fmt.Errorf("collection.surface: %w", err)
	}
	if cfg.Sort, err = collection.ParseSortType(s.Sort); err != nil {
		return cfg, fmt.Errorf("collection.sort: %w", err)
	}
	if cfg.Orient, err = collection.ParseOrientType(s.Orient); err != nil {
		return cfg, fmt.Errorf("collection.orient: %w", err)
	}
	if cfg.Layout, err = collection.ParseLayoutType(s.Layout); err != nil {
		return cfg, fmt.Errorf("collection.layout: %w", err)
	}
	cfg.Rows = s.Rows
	cfg.CellWidth = s.CellWidth
	cfg.CellHeight = s.CellHeight
	cfg.Radius = s.Radius
	cfg.IgnoreInactive = s.IgnoreInactive
	return cfg, nil
}

// configDir returns $XDG_CONFIG_HOME/objectgrid, or ~/.config/objectgrid.
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
