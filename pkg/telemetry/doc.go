// Package telemetry sets up logging and tracing for the graft CLI.
//
// Logging uses zerolog. The CLI installs the configured logger as the
// global zerolog logger, so library packages log through
// github.com/rs/zerolog/log and pick up the run ID added here.
//
// Tracing uses OpenTelemetry. Each config load is wrapped in a
// "config.load" span carrying the run ID, root directory and config
// path. Spans are exported to stdout or to an OTLP collector over gRPC;
// with the "none" exporter spans are created but dropped.
//
//	tel, err := telemetry.NewTelemetry(telemetry.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx, span := tel.Tracer.StartLoadSpan(ctx, runID, root, configPath)
//	defer span.End()
package telemetry
