// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"

	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/telan/x/profiler"
)

const (
	traceNone       = "none"
	traceOtel       = "otel"
	traceOpenCensus = "opencensus"
	traceCallgrind  = "callgrind"
	tracePprof      = "pprof"
)

// tracer attaches a profiler to rt.  Span-based tracers log finished spans
// to w.  The returned function ends the trace.
type tracer func(rt *telan.Runtime, file string, w io.Writer) (telan.Profiler, func() error, error)

var tracers = map[string]tracer{
	traceNone:       nil,
	traceOtel:       otelTracer,
	traceOpenCensus: openCensusTracer,
	traceCallgrind:  callgrindTracer,
	tracePprof:      pprofTracer,
}

func otelTracer(rt *telan.Runtime, _ string, w io.Writer) (telan.Profiler, func() error, error) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&spanLogger{log: spanLog(w)}))
	otel.SetTracerProvider(tp)
	p := profiler.NewOpenTelemetryAnnotator(rt, context.Background(), profiler.WithLocationLabeler())
	return p, func() error {
		return errors.Join(p.Complete(), tp.Shutdown(context.Background()))
	}, nil
}

func openCensusTracer(rt *telan.Runtime, _ string, w io.Writer) (telan.Profiler, func() error, error) {
	exp := &spanLogger{log: spanLog(w)}
	trace.RegisterExporter(exp)
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	p := profiler.NewOpenCensusAnnotator(rt, context.Background(), profiler.WithLocationLabeler())
	return p, func() error {
		defer trace.UnregisterExporter(exp)
		return p.Complete()
	}, nil
}

func callgrindTracer(rt *telan.Runtime, file string, _ io.Writer) (telan.Profiler, func() error, error) {
	if file == "" {
		file = "callgrind.out.telan"
	}
	p := profiler.NewCallgrindProfiler(rt)
	if err := p.SetFile(file); err != nil {
		return nil, nil, fmt.Errorf("callgrind trace: %w", err)
	}
	slog.Debug("writing callgrind trace", "path", file)
	return p, p.Complete, nil
}

func pprofTracer(rt *telan.Runtime, file string, _ io.Writer) (telan.Profiler, func() error, error) {
	if file == "" {
		file = "telan.pprof"
	}
	f, err := os.Create(file) //nolint:gosec // user-specified output file
	if err != nil {
		return nil, nil, fmt.Errorf("pprof trace: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close() //nolint:errcheck // already failing
		return nil, nil, fmt.Errorf("pprof trace: %w", err)
	}
	slog.Debug("writing cpu profile", "path", file)
	p := profiler.NewPprofAnnotator(rt, context.Background())
	return p, func() error {
		err := p.Complete()
		pprof.StopCPUProfile()
		return errors.Join(err, f.Close())
	}, nil
}

func spanLog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

// spanLogger logs finished spans.  It is both an OpenTelemetry span
// exporter and an OpenCensus exporter.
type spanLogger struct {
	log *slog.Logger
}

var (
	_ sdktrace.SpanExporter = (*spanLogger)(nil)
	_ trace.Exporter        = (*spanLogger)(nil)
)

// ExportSpans implements sdktrace.SpanExporter.
func (l *spanLogger) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		attrs := []any{
			"trace", s.SpanContext().TraceID().String(),
			"span", s.SpanContext().SpanID().String(),
			"duration", s.EndTime().Sub(s.StartTime()),
		}
		if s.Parent().IsValid() {
			attrs = append(attrs, "parent", s.Parent().SpanID().String())
		}
		l.log.InfoContext(ctx, s.Name(), attrs...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (l *spanLogger) Shutdown(ctx context.Context) error {
	return nil
}

// ExportSpan implements trace.Exporter.
func (l *spanLogger) ExportSpan(s *trace.SpanData) {
	attrs := []any{
		"trace", s.TraceID.String(),
		"span", s.SpanID.String(),
		"duration", s.EndTime.Sub(s.StartTime),
	}
	if s.ParentSpanID != (trace.SpanID{}) {
		attrs = append(attrs, "parent", s.ParentSpanID.String())
	}
	l.log.Info(s.Name, attrs...)
}
