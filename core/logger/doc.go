// Package logger provides a structured logging facility based on Zap.
//
// New builds a production (json) or development logger from Config. The
// console format switches to coloured capital levels and drops stack traces,
// which is what the CLI uses by default.
//
// # Correlation
//
//   - WithRun tags every line of a pipeline run with a generated run_id.
//   - WithRayID tags the lines of one catalog API request with the ray_id set
//     by the rayid middleware.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log, runID := logger.WithRun(log)
//	log.Info("Run started", zap.String("run_id", runID))
package logger
