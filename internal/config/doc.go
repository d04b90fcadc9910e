// Package config loads, validates, and persists generation settings.
//
// Settings live in a YAML file (see DefaultConfigFilename) and cover the
// client definition directory, the output directory, the release source API
// endpoint, and resource limits. API tokens are read from the environment
// only and are never written to disk.
package config
