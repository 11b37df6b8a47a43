package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/dogtopus/minipb"
)

// schemaEntry is one key/value schema entry as it appears in a schema
// config file: either a scalar (Type set) or a nested message (Nested
// set, Prefix optional).
type schemaEntry struct {
	Name   string        `mapstructure:"name"`
	Type   string        `mapstructure:"type"`
	Prefix string        `mapstructure:"prefix"`
	Nested []schemaEntry `mapstructure:"nested"`
}

// schemaFile is the shape of a schema config file loaded by viper: either
// a compact format string, or a list of key/value entries. Exactly one
// of the two must be set.
type schemaFile struct {
	Format string        `mapstructure:"format"`
	KV     []schemaEntry `mapstructure:"kv"`
}

// loadSchema reads a schema config file (YAML, JSON, or TOML, per
// viper's extension-based detection) and compiles it into a Schema.
func loadSchema(path string) (*minipb.Schema, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	var sf schemaFile
	if err := v.Unmarshal(&sf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema file: %w", err)
	}

	switch {
	case sf.Format != "" && len(sf.KV) > 0:
		return nil, fmt.Errorf("schema file %s sets both format and kv, expected exactly one", path)
	case sf.Format != "":
		return minipb.Compile(sf.Format)
	case len(sf.KV) > 0:
		entries, err := compileEntries(sf.KV)
		if err != nil {
			return nil, err
		}
		return minipb.CompileKV(entries)
	default:
		return nil, fmt.Errorf("schema file %s sets neither format nor kv", path)
	}
}

// compileEntries recursively compiles a tree of schemaEntry values into
// minipb.KVEntry values, compiling nested messages bottom-up first.
func compileEntries(raw []schemaEntry) ([]minipb.KVEntry, error) {
	entries := make([]minipb.KVEntry, 0, len(raw))
	for _, e := range raw {
		if len(e.Nested) > 0 {
			nestedEntries, err := compileEntries(e.Nested)
			if err != nil {
				return nil, err
			}
			nestedSchema, err := minipb.CompileKV(nestedEntries)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", e.Name, err)
			}
			if e.Prefix == "" {
				entries = append(entries, minipb.Nested(e.Name, nestedSchema))
			} else {
				entries = append(entries, minipb.NestedWithPrefix(e.Name, e.Prefix, nestedSchema))
			}
			continue
		}
		entries = append(entries, minipb.Scalar(e.Name, e.Type))
	}
	return entries, nil
}
