// Package config handles configuration loading, parsing, and validation for
// the server. Settings are grouped by concern (server, database, auth,
// weather, LLM, jobs) and loaded from environment variables with an optional
// YAML file, giving components type-safe access to their knobs without
// touching the loading machinery.
package config
