// Package config assembles the agent and reference-server configuration by
// merging environment variables, command-line flags, an optional JSON file,
// and built-in defaults, in that order of precedence. The merged
// [StructuredConfig] is narrowed into per-binary views ([AgentConfig],
// [ServerConfig]) that are validated before use.
package config
