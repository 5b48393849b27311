// Package logging builds the command line logger: a log/slog handler with
// colored level prefixes and redaction of secret-looking attributes.
package logging
