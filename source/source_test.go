package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pitabwire/selectable/source"
	"github.com/pitabwire/selectable/telemetry"
)

type SourceSuite struct {
	suite.Suite
}

func TestSourceSuite(t *testing.T) {
	suite.Run(t, new(SourceSuite))
}

func (s *SourceSuite) TestFuncIgnoresLocale() {
	var seen int
	src := source.Func(func(_ context.Context) ([]source.Record[int], error) {
		seen++
		return []source.Record[int]{{ID: 2, Name: "two"}}, nil
	})
	s.False(src.LocaleSensitive())

	en, err := src.Fetch(context.Background(), "en")
	s.Require().NoError(err)
	ja, err := src.Fetch(context.Background(), "ja")
	s.Require().NoError(err)
	s.Equal(en, ja)
	s.Equal(2, seen)
}

func (s *SourceSuite) TestLocaleFuncPassesLocale() {
	src := source.LocaleFunc(func(_ context.Context, locale string) ([]source.Record[string], error) {
		return []source.Record[string]{{ID: "01", Name: locale}}, nil
	})
	s.True(src.LocaleSensitive())

	records, err := src.Fetch(context.Background(), "ja")
	s.Require().NoError(err)
	s.Equal([]source.Record[string]{{ID: "01", Name: "ja"}}, records)
}

func (s *SourceSuite) TestStaticReturnsCopies() {
	src := source.Static(source.Record[string]{ID: "02"}, source.Record[string]{ID: "01", Name: "Book"})

	first, err := src.Fetch(context.Background(), "")
	s.Require().NoError(err)
	first[0].Name = "changed"

	second, err := src.Fetch(context.Background(), "")
	s.Require().NoError(err)
	s.Empty(second[0].Name)
	s.Equal("Book", second[1].Name)
}

func (s *SourceSuite) TestStaticEmpty() {
	records, err := source.Static[int]().Fetch(context.Background(), "en")
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *SourceSuite) tracedProviders() (*tracetest.SpanRecorder, *sdkmetric.ManualReader, []telemetry.Option) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	s.T().Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	return recorder, reader, []telemetry.Option{telemetry.WithTracerProvider(tp), telemetry.WithMeterProvider(mp)}
}

func (s *SourceSuite) TestTracedRecordsSpanAndCount() {
	recorder, reader, opts := s.tracedProviders()

	inner := source.LocaleFunc(func(_ context.Context, _ string) ([]source.Record[string], error) {
		return []source.Record[string]{{ID: "01"}, {ID: "02"}, {ID: "03"}}, nil
	})
	src := source.Traced("ProductWithDB", inner, opts...)
	s.True(src.LocaleSensitive())

	records, err := src.Fetch(context.Background(), "ja")
	s.Require().NoError(err)
	s.Len(records, 3)

	spans := recorder.Ended()
	s.Require().Len(spans, 1)
	s.Equal("Fetch", spans[0].Name())
	s.Equal(codes.Ok, spans[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	s.Equal("ProductWithDB", attrs[string(telemetry.AttrEnumerationKey)])
	s.Equal("ja", attrs[string(telemetry.AttrLocaleKey)])

	var rm metricdata.ResourceMetrics
	s.Require().NoError(reader.Collect(context.Background(), &rm))
	s.Equal(int64(3), counterValue(rm, source.TracerName+"/records"))
}

func (s *SourceSuite) TestTracedRecordsErrors() {
	recorder, reader, opts := s.tracedProviders()
	boom := errors.New("relation item_masters does not exist")

	src := source.Traced("ProductWithDB", source.Func(func(_ context.Context) ([]source.Record[string], error) {
		return nil, boom
	}), opts...)
	s.False(src.LocaleSensitive())

	_, err := src.Fetch(context.Background(), "")
	s.ErrorIs(err, boom)

	spans := recorder.Ended()
	s.Require().Len(spans, 1)
	s.Equal(codes.Error, spans[0].Status().Code)
	s.Equal(boom.Error(), spans[0].Status().Description)

	var rm metricdata.ResourceMetrics
	s.Require().NoError(reader.Collect(context.Background(), &rm))
	s.Zero(counterValue(rm, source.TracerName+"/records"))
}

func counterValue(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}
