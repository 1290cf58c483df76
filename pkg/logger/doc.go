// Package logger builds configured log/slog loggers with sane defaults and
// automatic context attribute injection.
//
// Defaults are production-safe (JSON output, INFO level); development setups
// flip to readable text output with WithDevelopment. Context extractors let
// request-scoped values such as run IDs flow into every record emitted with
// that context without threading them through call sites.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("gatekit"),
//	    logger.WithContextValue("run_id", runIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.ErrorContext(ctx, "sealing failed", logger.Error(err))
package logger
