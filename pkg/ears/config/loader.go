package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// section is the optional top-level key that scopes dispatcher settings
// inside a larger application config file.
const section = "ears"

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config. If the document has a
// top-level "ears" mapping, only that mapping is used.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(scoped(m)), nil
}

// FromJSON parses JSON data into a Config. If the document has a
// top-level "ears" object, only that object is used.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(scoped(m)), nil
}

func scoped(m map[string]any) map[string]any {
	if inner, ok := m[section].(map[string]any); ok {
		return inner
	}
	return m
}

// envVars lists the environment variables read by FromEnv.
type envVars struct {
	AutoDiscoverListeners *bool    `split_words:"true"`
	ParallelDispatch      *bool    `split_words:"true"`
	ModulesToScan         []string `split_words:"true"`
}

// FromEnv reads <PREFIX>_AUTO_DISCOVER_LISTENERS, <PREFIX>_PARALLEL_DISPATCH
// and <PREFIX>_MODULES_TO_SCAN (comma separated). Only variables that are
// set appear in the returned Config.
//
//	cfg, err := config.FromEnv("EARS")
func FromEnv(prefix string) (Config, error) {
	var vars envVars
	if err := envconfig.Process(prefix, &vars); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	m := make(map[string]any)
	if vars.AutoDiscoverListeners != nil {
		m[KeyAutoDiscoverListeners] = *vars.AutoDiscoverListeners
	}
	if vars.ParallelDispatch != nil {
		m[KeyParallelDispatch] = *vars.ParallelDispatch
	}
	if vars.ModulesToScan != nil {
		m[KeyModulesToScan] = vars.ModulesToScan
	}
	return New(m), nil
}

// Merge returns a Config holding the keys of every argument, with later
// arguments taking precedence.
//
//	file, _ := config.FromFile("ears.yaml")
//	env, _ := config.FromEnv("EARS")
//	opts := config.Merge(file, env).Options(nil)
func Merge(configs ...Config) Config {
	m := make(map[string]any)
	for _, c := range configs {
		for k, v := range c.data {
			m[k] = v
		}
	}
	return New(m)
}
