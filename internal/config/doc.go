// Package config defines the application configuration and its loading
// rules. Values come from an optional config file and from environment
// variables with the SEQNOTES_ prefix; environment variables win.
package config
