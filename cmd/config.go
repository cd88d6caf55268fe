package cmd

import (
	"fmt"

	"github.com/nuralexjig/jtool/config"
	"github.com/spf13/viper"
)

const envPrefix = "JTOOL"

// Setting keys, read from JTOOL_<KEY> environment variables.
const (
	keyConfig       = "config"
	keyConanBinary  = "conan_binary"
	keyConanTimeout = "conan_timeout"
	keyDebug        = "debug"
)

type settings struct {
	Path   string
	Config *config.Config
	Debug  bool
}

// loadSettings reads the config file and applies environment overrides.
func loadSettings() (*settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault(keyConfig, config.DefaultPath())
	v.SetDefault(keyDebug, false)

	path := v.GetString(keyConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if binary := v.GetString(keyConanBinary); binary != "" {
		cfg.Conan.Binary = binary
	}
	if timeout := v.GetString(keyConanTimeout); timeout != "" {
		if err := cfg.SetConanTimeout(timeout); err != nil {
			return nil, fmt.Errorf("%s_%s: %w", envPrefix, "CONAN_TIMEOUT", err)
		}
	}
	return &settings{
		Path:   path,
		Config: cfg,
		Debug:  v.GetBool(keyDebug),
	}, nil
}
