package source

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/pitabwire/selectable/telemetry"
)

// TracerName names the spans and instruments of traced sources.
const TracerName = "selectable/source"

type tracedSource[ID comparable] struct {
	enumeration string
	src         Source[ID]
	tracer      telemetry.Tracer
	records     metric.Int64Counter
}

// Traced wraps src so every Fetch runs in a span and counts the records it
// returned. Providers default to the otel globals.
func Traced[ID comparable](enumeration string, src Source[ID], opts ...telemetry.Option) Source[ID] {
	ts := &tracedSource[ID]{
		enumeration: enumeration,
		src:         src,
		tracer:      telemetry.NewTracer(TracerName, opts...),
	}

	_, mp := telemetry.Providers(opts...)
	ts.records = telemetry.DimensionlessMeasure(mp, TracerName, "/records", "Override records fetched")
	return ts
}

func (t *tracedSource[ID]) Fetch(ctx context.Context, locale string) (records []Record[ID], err error) {
	ctx, span := t.tracer.Start(ctx, "Fetch", trace.WithAttributes(
		telemetry.AttrEnumerationKey.String(t.enumeration),
		telemetry.AttrLocaleKey.String(locale),
	))
	defer func() { t.tracer.End(ctx, span, err) }()

	records, err = t.src.Fetch(ctx, locale)
	if err == nil {
		t.records.Add(ctx, int64(len(records)), metric.WithAttributes(
			telemetry.AttrEnumerationKey.String(t.enumeration),
		))
	}
	return records, err
}

func (t *tracedSource[ID]) LocaleSensitive() bool {
	return t.src.LocaleSensitive()
}
