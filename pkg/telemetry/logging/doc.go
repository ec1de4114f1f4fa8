// Package logging builds the process-wide slog logger from configuration.
//
// Components take a *slog.Logger and attach a "component" attribute, so a
// single handler created here feeds every subsystem with a consistent
// format and level.
package logging
