// Package config loads storycache settings.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML
// file, and STORYCACHE_* environment variables (a .env file is loaded into
// the environment first without overriding existing variables). Nested keys
// map to variables by upper-casing and replacing dots with underscores:
// cache.max_entries becomes STORYCACHE_CACHE_MAX_ENTRIES.
//
// Credential fields accept secret references (see package secret).
package config
