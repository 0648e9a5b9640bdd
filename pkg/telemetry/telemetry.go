package telemetry

import (
	"context"
	"io"
)

// Telemetry bundles the logger and tracer of one graft invocation.
type Telemetry struct {
	Logger *Logger
	Tracer *Tracer
	Config *Config
}

// telemetryContextKey is the context key for telemetry instances.
type telemetryContextKey struct{}

// NewTelemetry creates a new telemetry instance from configuration.
func NewTelemetry(cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	return newTelemetry(cfg, logger)
}

// NewWriterTelemetry is NewTelemetry with logs written to w.
func NewWriterTelemetry(w io.Writer, cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newTelemetry(cfg, NewWriterLogger(w, cfg.Logging))
}

func newTelemetry(cfg *Config, logger *Logger) (*Telemetry, error) {
	tracer, err := NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		logger.Close()
		return nil, err
	}

	return &Telemetry{
		Logger: logger,
		Tracer: tracer,
		Config: cfg,
	}, nil
}

// WithContext adds the telemetry instance and its logger to the context.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, telemetryContextKey{}, t)
	return t.Logger.WithContext(ctx)
}

// FromTelemetryContext retrieves the telemetry instance from the context.
// If no telemetry is found, it returns nil.
func FromTelemetryContext(ctx context.Context) *Telemetry {
	if t, ok := ctx.Value(telemetryContextKey{}).(*Telemetry); ok {
		return t
	}
	return nil
}

// Shutdown flushes pending spans and closes the log file, if any.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	err := t.Tracer.Shutdown(ctx)
	if cerr := t.Logger.Close(); err == nil {
		err = cerr
	}
	return err
}
