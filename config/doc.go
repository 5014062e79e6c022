// Package config loads and validates the agentcast configuration from
// a YAML file. Credentials never live in the file; adapters read them
// from the environment.
package config
