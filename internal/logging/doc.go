// Package logging provides structured logging for the apibuilder CLI using slog.
//
// Text output goes through [Handler], which colours levels and keys when the
// writer is a terminal and masks secrets such as API tokens. JSON output uses
// the standard library handler. [MultiHandler] fans records out to several
// handlers (console plus --log-file).
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Tests use [ForTest] so output only shows up for failing tests or with -v.
package logging
