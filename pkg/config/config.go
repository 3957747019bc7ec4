// Package config loads the engine-level defaults the render/collector
// packages need at startup (sample rate, channel count, master gain
// ceiling, plugin sandbox timeout) — the ambient "how does the core get
// its settings" concern spec.md's non-goals never exclude, distinct
// from devalang's out-of-scope addon/bank download system.
package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Engine holds the resolved configuration the renderer and collector
// read at startup.
type Engine struct {
	SampleRate        int
	Channels          int
	MasterGainCeiling float32
	PluginSandboxTimeout time.Duration
}

func defaults() Engine {
	return Engine{
		SampleRate:           44100,
		Channels:             2,
		MasterGainCeiling:    1.0,
		PluginSandboxTimeout: 2 * time.Second,
	}
}

// Load reads engine configuration from (in ascending priority) built-in
// defaults, a config file named "devalang" on the given search paths,
// and DEVALANG_-prefixed environment variables.
func Load(searchPaths ...string) (Engine, error) {
	v := viper.New()
	d := defaults()

	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("channels", d.Channels)
	v.SetDefault("master_gain_ceiling", d.MasterGainCeiling)
	v.SetDefault("plugin_sandbox_timeout_ms", d.PluginSandboxTimeout.Milliseconds())

	v.SetConfigName("devalang")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("DEVALANG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Engine{}, errors.Wrap(err, "config: read config file")
		}
	}

	return Engine{
		SampleRate:           v.GetInt("sample_rate"),
		Channels:             v.GetInt("channels"),
		MasterGainCeiling:    float32(v.GetFloat64("master_gain_ceiling")),
		PluginSandboxTimeout: time.Duration(v.GetInt64("plugin_sandbox_timeout_ms")) * time.Millisecond,
	}, nil
}
