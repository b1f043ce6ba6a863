// Package config loads contentkit settings.
//
// Values are layered, later sources winning:
//
//  1. Default()
//  2. an optional YAML (.yaml, .yml) or TOML (.toml) file
//  3. an optional .env file, which never overrides variables already set
//  4. CONTENTKIT_* environment variables
//
// The merged Config is then checked with validator struct tags. Run
// Usage to list every recognized environment variable.
package config
