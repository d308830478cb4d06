// Package logging builds slog loggers for the CLI and for individual runs.
//
// There is no process-global logger. Each run constructs a logger bound to a
// log file inside its own output directory and hands it down to every stage,
// so two runs never write to the same session log.
package logging
