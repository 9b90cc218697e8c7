// Package config loads runtime settings for an acorn container from YAML or
// JSON files, with overrides from the process environment (optionally
// seeded from a .env file).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings are the tunable knobs of a container. Zero value = everything
// off, which is the default behavior of acorn.New.
type Settings struct {
	// EagerSingletons realizes every factory-backed Singleton descriptor
	// when the first scope is created, instead of on first resolution.
	EagerSingletons bool `yaml:"eager_singletons" json:"eager_singletons"`

	// Metrics enables OpenTelemetry metrics for resolutions and disposal.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// Tracing enables OpenTelemetry spans around disposal and shutdown.
	Tracing bool `yaml:"tracing" json:"tracing"`
}

// Environment variables recognized by FromEnv. Each overrides the matching
// Settings field when set to a value strconv.ParseBool accepts.
const (
	EnvEagerSingletons = "ACORN_EAGER_SINGLETONS"
	EnvMetrics         = "ACORN_METRICS"
	EnvTracing         = "ACORN_TRACING"
)

// FromEnv overlays environment variable overrides onto s. Env files listed
// in envFiles are loaded first; a missing env file is not an error (it may
// simply not exist in production).
func FromEnv(s Settings, envFiles ...string) Settings {
	if len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}
	overrideBool(&s.EagerSingletons, EnvEagerSingletons)
	overrideBool(&s.Metrics, EnvMetrics)
	overrideBool(&s.Tracing, EnvTracing)
	return s
}

func overrideBool(field *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return
	}
	*field = b
}
