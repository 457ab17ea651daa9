package telemetry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pitabwire/selectable/telemetry"
)

type TelemetrySuite struct {
	suite.Suite
	recorder *tracetest.SpanRecorder
	reader   *sdkmetric.ManualReader
	tracer   telemetry.Tracer
}

func TestTelemetrySuite(t *testing.T) {
	suite.Run(t, new(TelemetrySuite))
}

func (s *TelemetrySuite) SetupTest() {
	s.recorder = tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.recorder))
	s.reader = sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(s.reader),
		sdkmetric.WithView(telemetry.Views("selectable/test")...),
	)
	s.tracer = telemetry.NewTracer("selectable/test",
		telemetry.WithTracerProvider(tp), telemetry.WithMeterProvider(mp))
}

func (s *TelemetrySuite) collect() map[string]metricdata.Metrics {
	var rm metricdata.ResourceMetrics
	s.Require().NoError(s.reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func (s *TelemetrySuite) TestStartEndRecordsLatency() {
	ctx, span := s.tracer.Start(context.Background(), "List")
	s.tracer.End(ctx, span, nil)

	spans := s.recorder.Ended()
	s.Require().Len(spans, 1)
	s.Equal("List", spans[0].Name())
	s.Equal(codes.Ok, spans[0].Status().Code)

	metrics := s.collect()
	s.Contains(metrics, "selectable/test/latency")
	s.Contains(metrics, "selectable/test/completed_calls")

	hist, ok := metrics["selectable/test/latency"].Data.(metricdata.Histogram[float64])
	s.Require().True(ok)
	s.Require().Len(hist.DataPoints, 1)
	s.Equal(uint64(1), hist.DataPoints[0].Count)
	status, _ := hist.DataPoints[0].Attributes.Value(telemetry.AttrStatusKey)
	s.Equal("ok", status.AsString())
}

func (s *TelemetrySuite) TestEndWithError() {
	ctx, span := s.tracer.Start(context.Background(), "Fetch")
	s.tracer.End(ctx, span, errors.New("connection refused"))

	spans := s.recorder.Ended()
	s.Require().Len(spans, 1)
	s.Equal(codes.Error, spans[0].Status().Code)
	s.Len(spans[0].Events(), 1, "the error is recorded as an event")
}

func (s *TelemetrySuite) TestEndWithoutStartStillEndsSpan() {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.recorder))
	_, span := tp.Tracer("raw").Start(context.Background(), "Raw")

	s.tracer.End(context.Background(), span, nil)
	s.Len(s.recorder.Ended(), 1)
}

func (s *TelemetrySuite) TestErrorCode() {
	s.Equal("ok", telemetry.ErrorCode(nil))
	s.Equal("canceled", telemetry.ErrorCode(fmt.Errorf("fetch: %w", context.Canceled)))
	s.Equal("deadline exceeded", telemetry.ErrorCode(context.DeadlineExceeded))
	s.Equal("err", telemetry.ErrorCode(errors.New("boom")))
}
