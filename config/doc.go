// Package config loads clouddrop configuration from files, environment
// variables and CLI flags, in that order of increasing precedence.
//
// Environment variables use the CLOUDDROP_ prefix with dots replaced by
// underscores, so server.port becomes CLOUDDROP_SERVER_PORT.
//
// The loaded configuration travels through the command layer in a
// context via WithContext and FromContext.
package config
