package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/storycache/cache"
)

// GenerationMeta describes one generation call for telemetry purposes.
//
// The player identifier is deliberately absent: spans and metric labels
// never carry it.
type GenerationMeta struct {
	ID        string     // Generation id, unique per call (optional)
	Kind      cache.Kind // What is being generated (required)
	Genre     string
	Tone      string
	Character string
	Setting   string
	Backend   string // Generator backend, e.g. "openai" or "mock" (optional)
}

// MetaFor builds the metadata for generating kind under sc.
func MetaFor(kind cache.Kind, sc cache.StoryContext, backend string) GenerationMeta {
	return GenerationMeta{
		Kind:      kind,
		Genre:     sc.Genre,
		Tone:      sc.Tone,
		Character: sc.Character,
		Setting:   sc.Setting,
		Backend:   backend,
	}
}

// SpanName returns the deterministic span name for this generation.
// Format: story.generate.<kind>
func (m GenerationMeta) SpanName() string {
	return "story.generate." + m.Kind.String()
}

// Validate reports ErrMissingKind when Kind is empty.
func (m GenerationMeta) Validate() error {
	if m.Kind == "" {
		return ErrMissingKind
	}
	return nil
}

// attributes returns the non-empty descriptive attributes of m.
func (m GenerationMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("story.kind", m.Kind.String()),
	}
	for _, kv := range [...]struct{ key, val string }{
		{"story.genre", m.Genre},
		{"story.tone", m.Tone},
		{"story.character", m.Character},
		{"story.setting", m.Setting},
		{"story.backend", m.Backend},
	} {
		if kv.val != "" {
			attrs = append(attrs, attribute.String(kv.key, kv.val))
		}
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with generation span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan returns a context carrying the new span.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a generation call.
	StartSpan(ctx context.Context, meta GenerationMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new internal span with generation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta GenerationMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("story.error", false))
	if meta.ID != "" {
		attrs = append(attrs, attribute.String("story.generation_id", meta.ID))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("story.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NopTracer returns a tracer whose spans record nothing.
func NopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta GenerationMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}
