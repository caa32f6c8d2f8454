package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Engine struct {
		// DBusService is the D-Bus name of the running Kdenlive instance.
		DBusService string `mapstructure:"dbus_service"`
		// DBusPath is the object path the scripting interface lives on.
		DBusPath string `mapstructure:"dbus_path"`
		// CommandTimeout bounds a single engine call.
		CommandTimeout time.Duration `mapstructure:"command_timeout"`
		// ImportSettle is the wait after a fire-and-forget import before
		// the bin is snapshotted again.
		ImportSettle time.Duration `mapstructure:"import_settle"`
		// InsertSettle is the wait after inserting a clip before its
		// info is queried.
		InsertSettle time.Duration `mapstructure:"insert_settle"`
		// DefaultClipDuration (frames) substitutes for placements whose
		// true duration the engine will not report.
		DefaultClipDuration int `mapstructure:"default_clip_duration"`
		// DefaultTransition (frames) is the cross-dissolve length used
		// when a tool call does not specify one.
		DefaultTransition int `mapstructure:"default_transition"`
		// FPS is the project frame rate used for timecode output.
		FPS float64 `mapstructure:"fps"`
	} `mapstructure:"engine"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// LoadConfig loads the configuration from a file and the environment.
// A missing config file is fine; defaults cover every key.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("KDENLIVE_MCP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.dbus_service", "org.kde.kdenlive")
	v.SetDefault("engine.dbus_path", "/MainApplication")
	v.SetDefault("engine.command_timeout", 10*time.Second)
	v.SetDefault("engine.import_settle", 300*time.Millisecond)
	v.SetDefault("engine.insert_settle", 200*time.Millisecond)
	v.SetDefault("engine.default_clip_duration", 125)
	v.SetDefault("engine.default_transition", 13)
	v.SetDefault("engine.fps", 25.0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
