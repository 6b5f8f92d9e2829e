// Package config loads, validates and writes imgeda configuration.
//
// Configuration lives in a TOML file (default ~/.config/imgeda/config.toml,
// falling back to ./imgeda.toml) and is merged over compiled-in defaults,
// so an absent or partial file is always usable.
package config
