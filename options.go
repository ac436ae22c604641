package docgo

import (
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

type registryOptions struct {
	database         *mongo.Database
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Registry constructor behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. logger-specific constructor variants).
type Option func(*registryOptions)

// WithDatabase binds the registry to db at construction time.
// Equivalent to calling Use afterwards.
func WithDatabase(db *mongo.Database) Option {
	return func(o *registryOptions) {
		o.database = db
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
//
// If nil is passed, NoopMetricsCollector is used.
//
// Example with BasicMetricsCollector:
//
//	metrics := &docgo.BasicMetricsCollector{}
//	r := docgo.NewRegistry(docgo.WithMetricsCollector(metrics))
//	// ... use r ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *registryOptions) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// If nil is passed, NoopLogger is used.
//
// Example with JSON logging:
//
//	logger := docgo.NewJSONLogger(slog.LevelInfo)
//	r := docgo.NewRegistry(docgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *registryOptions) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *registryOptions) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) registryOptions {
	o := registryOptions{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
