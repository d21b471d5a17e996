// Package config defines the application's configuration structures and the
// loading logic that fills them from environment variables and an optional
// YAML file.
package config
