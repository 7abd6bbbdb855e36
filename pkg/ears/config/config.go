package config

import (
	"strings"

	"github.com/randalmurphal/ears/pkg/ears"
)

// Keys understood by Options.
const (
	KeyAutoDiscoverListeners = "auto_discover_listeners"
	KeyParallelDispatch      = "parallel_dispatch"
	KeyModulesToScan         = "modules_to_scan"
)

// Config wraps a map[string]any for type-safe value extraction.
// All accessor methods return default values if the key is missing
// or the value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// Options returns a copy of base with every key present in c applied.
// Keys that are missing or hold a value of the wrong type leave the base
// value in place. A nil base starts from auto-discovery and parallel
// dispatch enabled with no modules.
//
//	cfg, _ := config.FromFile("ears.yaml")
//	opts := cfg.Options(ears.DefaultOptions())
func (c Config) Options(base *ears.Options) *ears.Options {
	var opts ears.Options
	if base != nil {
		opts = *base
	} else {
		opts = ears.Options{AutoDiscoverListeners: true, ParallelDispatch: true}
	}
	opts.ModulesToScan = append([]string(nil), opts.ModulesToScan...)

	opts.AutoDiscoverListeners = c.Bool(KeyAutoDiscoverListeners, opts.AutoDiscoverListeners)
	opts.ParallelDispatch = c.Bool(KeyParallelDispatch, opts.ParallelDispatch)
	opts.ModulesToScan = c.StringSlice(KeyModulesToScan, opts.ModulesToScan)
	return &opts
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - bool: used directly
//   - string: "true"/"false" (case-insensitive)
func (c Config) Bool(key string, defaultVal bool) bool {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - []string: used directly
//   - []any: each element must be a string
//   - string: split on commas, blanks dropped
func (c Config) StringSlice(key string, defaultVal []string) []string {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			result = append(result, s)
		}
		return result
	case string:
		var result []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
		return result
	}
	return defaultVal
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}
