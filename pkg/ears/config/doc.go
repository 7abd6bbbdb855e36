/*
Package config builds ears.Options from configuration files and the
environment.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
Options maps the recognized keys onto a copy of an ears.Options value:

	auto_discover_listeners: true
	parallel_dispatch: false
	modules_to_scan:
	  - github.com/acme/shop/orders
	  - github.com/acme/shop/billing

The same keys may be nested under a top-level "ears" section so the
dispatcher settings can live in a larger application file.

# Basic Usage

	cfg, err := config.FromFile("config.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	opts := cfg.Options(ears.DefaultOptions())

	d, err := ears.New(opts, resolver)

# Environment

FromEnv reads the same settings from prefixed variables:

	EARS_AUTO_DISCOVER_LISTENERS=false
	EARS_PARALLEL_DISPATCH=true
	EARS_MODULES_TO_SCAN=github.com/acme/shop/orders,github.com/acme/shop/billing

Combine sources with Merge; later configs win:

	file, _ := config.FromFile("config.yaml")
	env, _ := config.FromEnv("EARS")
	opts := config.Merge(file, env).Options(nil)

# Type Coercion

Bool accepts bool values and the strings "true" and "false".
StringSlice accepts string lists and comma separated strings.

All methods return the default value if:
  - The key is missing
  - The value cannot be converted to the requested type

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
