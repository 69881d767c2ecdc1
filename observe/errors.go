package observe

import (
	"errors"

	"github.com/jonwraymond/storycache/observe/exporters"
)

var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample percentage must be between 0.0 and 1.0")
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: invalid log level")

	// ErrNilObserver is returned by constructors that need an Observer.
	ErrNilObserver = errors.New("observe: observer is nil")

	// ErrMissingKind is returned when GenerationMeta.Kind is empty.
	ErrMissingKind = errors.New("observe: generation kind is required")

	// ErrEndpointNotConfigured re-exports the exporter error for callers that
	// only import observe.
	ErrEndpointNotConfigured = exporters.ErrEndpointNotConfigured
)
