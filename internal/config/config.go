// Package config holds the application configuration sections. Values
// are loaded from the config file and environment by the cmd layer via
// viper and unmarshaled into these structs.
package config

// Config is the whole application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Trust  TrustConfig  `mapstructure:"trust" yaml:"trust"`
}

// SetDefaults fills in zero-valued sections.
func (c *Config) SetDefaults() {
	c.Logger.SetDefaults()
	c.Engine.SetDefaults()
}

// LoggerConfig configures the zap-based logging stack.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.ServiceName == "" {
		c.ServiceName = "fillscope"
	}
	if c.Colors == (ColorConfig{}) {
		c.Colors = ColorConfig{
			Debug: "cyan",
			Info:  "green",
			Warn:  "yellow",
			Error: "red",
			Fatal: "magenta",
		}
	}
}

// ColorConfig names the console color per log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig configures the batch classification engine.
type EngineConfig struct {
	// Concurrency bounds how many snapshots are classified in parallel.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

func (c *EngineConfig) SetDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
}

// TrustConfig configures the per-surface origin trust policy.
type TrustConfig struct {
	// MultiOriginSurfaces lists surface package ids trusted to annotate
	// every field with its true frame origin. Empty means the built-in
	// browser list.
	MultiOriginSurfaces []string `mapstructure:"multi_origin_surfaces" yaml:"multi_origin_surfaces"`
}
