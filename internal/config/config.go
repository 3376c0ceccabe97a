package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Source values select where centroid records come from.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds the configuration settings for the label map renderer.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Source: Where centroid records are read from (file, postgres).
// - Paths: Input and output locations.
// - Render: Output formats and text styling.
// - Layout: Placement policy and solver tuning.
// - Canvas: The lon/lat rectangle the map covers.
// - Hook: External commands run after rendering.
// - Geocoder: Settings for backfilling missing centroids.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env      string         `mapstructure:"env"`      // Env is the current environment: local, development, production.
	Source   string         `mapstructure:"source"`   // Source selects the centroid record backend.
	Paths    PathsConfig    `mapstructure:"paths"`    // Paths holds file locations.
	Render   RenderConfig   `mapstructure:"render"`   // Render holds export settings.
	Layout   LayoutConfig   `mapstructure:"layout"`   // Layout holds placement settings.
	Canvas   CanvasConfig   `mapstructure:"canvas"`   // Canvas holds the map bounds.
	Hook     HookConfig     `mapstructure:"hook"`     // Hook holds post-render commands.
	Geocoder GeocoderConfig `mapstructure:"geocoder"` // Geocoder holds backfill settings.
	Database PostgresConfig `mapstructure:"postgres"` // Database holds the postgres database configuration
}

// PathsConfig lists the files the renderer reads and writes.
type PathsConfig struct {
	Worklist  string `mapstructure:"worklist"`   // Worklist is a dictionary YAML file; empty uses the embedded one.
	Centroids string `mapstructure:"centroids"`  // Centroids is the base centroid JSON file.
	Overrides string `mapstructure:"overrides"`  // Overrides is the override centroid JSON file.
	Basemap   string `mapstructure:"basemap"`    // Basemap is an optional GeoJSON file with country shapes.
	OutputDir string `mapstructure:"output_dir"` // OutputDir receives rendered files.
	Metrics   string `mapstructure:"metrics"`    // Metrics is an optional Prometheus text file.
}

// RenderConfig controls export.
type RenderConfig struct {
	Formats  []string `mapstructure:"formats"`
	Width    int      `mapstructure:"width"`
	FontSize float64  `mapstructure:"font_size"`
	DPI      float64  `mapstructure:"dpi"`
	Title    string   `mapstructure:"title"`
	Name     string   `mapstructure:"name"`
}

// LayoutConfig controls label placement.
type LayoutConfig struct {
	Policy     string  `mapstructure:"policy"`
	Solver     string  `mapstructure:"solver"`
	Iterations int     `mapstructure:"iterations"`
	MinStep    float64 `mapstructure:"min_step"`
	Force      float64 `mapstructure:"force"`
	Padding    float64 `mapstructure:"padding"`
	Seed       int64   `mapstructure:"seed"`
	Threshold  float64 `mapstructure:"connector_threshold"`
}

// CanvasConfig is the lon/lat rectangle of the map.
type CanvasConfig struct {
	MinLon float64 `mapstructure:"min_lon"`
	MaxLon float64 `mapstructure:"max_lon"`
	MinLat float64 `mapstructure:"min_lat"`
	MaxLat float64 `mapstructure:"max_lat"`
}

// HookConfig holds commands run on the rendered output.
type HookConfig struct {
	Open        bool   `mapstructure:"open"`
	Command     string `mapstructure:"command"`
	TileCommand string `mapstructure:"tile_command"`
}

// GeocoderConfig holds the backfill provider settings.
type GeocoderConfig struct {
	Provider  string `mapstructure:"provider"`
	APIKey    string `mapstructure:"api_key"`
	Workers   int    `mapstructure:"workers"`
	RateLimit int    `mapstructure:"rate_limit"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`  // Name is the name of the database.
}

// keys lists every setting so that viper binds it to its environment variable.
var keys = []string{
	"paths.worklist", "paths.overrides", "paths.basemap",
	"paths.metrics", "geocoder.api_key", "hook.tile_command",
	"postgres.host", "postgres.user", "postgres.password", "postgres.db_name",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("source", SourceFile)

	v.SetDefault("paths.centroids", "data/centroids.json")
	v.SetDefault("paths.output_dir", "build")

	v.SetDefault("render.formats", []string{"svg", "png"})
	v.SetDefault("render.width", 6000)
	v.SetDefault("render.font_size", 8.0)
	v.SetDefault("render.dpi", 100.0)
	v.SetDefault("render.title", "Map with Labeled Countries")
	v.SetDefault("render.name", "map")

	v.SetDefault("layout.policy", "always_layout")
	v.SetDefault("layout.solver", "force")
	v.SetDefault("layout.iterations", 500)
	v.SetDefault("layout.min_step", 0.0)
	v.SetDefault("layout.force", 0.5)
	v.SetDefault("layout.padding", 0.05)
	v.SetDefault("layout.seed", 1)
	v.SetDefault("layout.connector_threshold", 2.0)

	v.SetDefault("canvas.min_lon", -180.0)
	v.SetDefault("canvas.max_lon", 180.0)
	v.SetDefault("canvas.min_lat", -90.0)
	v.SetDefault("canvas.max_lat", 90.0)

	v.SetDefault("hook.open", false)
	v.SetDefault("hook.command", "open")

	v.SetDefault("geocoder.provider", "nominatim")
	v.SetDefault("geocoder.workers", 2)
	v.SetDefault("geocoder.rate_limit", 1)

	v.SetDefault("postgres.port", "5432")
}

// MustLoad loads the configuration from the environment and an optional YAML file
// named by LABELMAP_CONFIG, and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LABELMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			panic("failed to bind configuration key " + key)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("failed to parse configuration")
	}

	validate(&cfg)

	return &cfg
}

func validate(cfg *Config) {
	switch cfg.Source {
	case SourceFile, SourcePostgres:
	default:
		panic("failed to parse source from configuration, must be file or postgres")
	}

	if cfg.Source == SourceFile && strings.TrimSpace(cfg.Paths.Centroids) == "" {
		panic("failed to parse paths.centroids from configuration, required when source is file")
	}

	switch cfg.Layout.Policy {
	case "always_layout", "pin_if_explicit":
	default:
		panic("failed to parse layout policy from configuration, must be always_layout or pin_if_explicit")
	}

	switch cfg.Layout.Solver {
	case "force", "anneal":
	default:
		panic("failed to parse layout solver from configuration, must be force or anneal")
	}

	if cfg.Layout.Iterations <= 0 {
		panic("failed to parse layout iterations from configuration, must be a positive integer")
	}

	if cfg.Render.Width <= 0 {
		panic("failed to parse render width from configuration, must be a positive integer")
	}

	if cfg.Geocoder.Workers <= 0 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	if cfg.Canvas.MinLon >= cfg.Canvas.MaxLon || cfg.Canvas.MinLat >= cfg.Canvas.MaxLat {
		panic("failed to parse canvas bounds from configuration, min must be below max")
	}
}
