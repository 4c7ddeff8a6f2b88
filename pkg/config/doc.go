// Package config loads application configuration from environment variables.
//
// Every setting has a STUDYHALL_-prefixed variable and a sensible default,
// so a bare `studyhall` starts a working development server against a local
// SQLite file. The one exception is STUDYHALL_JWT_SECRET, which has no
// default and must be set to at least 32 bytes.
package config
