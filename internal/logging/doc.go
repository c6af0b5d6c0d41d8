// Package logging builds the slog loggers used across dBVoir.
//
// The console handler renders compact key=value lines with the component
// attribute lifted into the message prefix; the JSON handler emits
// machine-readable records with stable key names. NewFromConfig wires the
// configured format, level, and log file in one call.
package logging
