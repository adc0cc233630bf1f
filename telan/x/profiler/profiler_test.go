package profiler_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/telan/x/profiler"
	"github.com/luthersystems/telan/telantest"
)

const testProgram = `(setf add2 2 2 '(NUMBER) '(+ (get 0) (get 1)))
(print (add2 1 2))
`

func newEnv(t *testing.T, config ...telan.Config) (*telan.Env, *bytes.Buffer) {
	var out bytes.Buffer
	env, err := telantest.NewEnv(&out, nil, config...)
	require.NoError(t, err)
	return env, &out
}

func newTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func TestOpenTelemetryAnnotator(t *testing.T) {
	exporter := newTracerProvider(t)
	env, out := newEnv(t)
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background())
	require.NoError(t, ppa.Enable())
	_, err := env.LoadString("test.tln", testProgram)
	require.NoError(t, err)
	assert.NoError(t, ppa.Complete())
	assert.Equal(t, "3\n", out.String())

	spans := exporter.GetSpans()
	var names []string
	for _, s := range spans {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"setf", "get", "get", "+", "add2", "print"}, names)
	assert.Equal(t, spans[4].SpanContext.SpanID(), spans[1].Parent.SpanID())
	assert.Equal(t, spans[4].SpanContext.SpanID(), spans[3].Parent.SpanID())
	assert.False(t, spans[4].Parent.IsValid())
	assert.Contains(t, spans[4].Attributes, semconv.CodeNamespace("user"))
	assert.Contains(t, spans[4].Attributes, semconv.CodeLineNumber(2))
	assert.Contains(t, spans[4].Attributes, semconv.CodeFilepath("test.tln"))
}

func TestOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newTracerProvider(t)
	env, _ := newEnv(t)
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, context.Background(),
		profiler.WithUserOperatorFilter(),
		profiler.WithLocationLabeler())
	require.NoError(t, ppa.Enable())
	_, err := env.LoadString("test.tln", testProgram)
	require.NoError(t, err)
	assert.NoError(t, ppa.Complete())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "add2@test.tln:2", spans[0].Name)
}

func TestOpenTelemetryAnnotatorNilContext(t *testing.T) {
	env, _ := newEnv(t)
	//nolint:staticcheck // nil context is the case under test
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, nil)
	assert.Error(t, ppa.Enable())
}

type spanCollector struct {
	spans []*octrace.SpanData
}

func (c *spanCollector) ExportSpan(s *octrace.SpanData) {
	c.spans = append(c.spans, s)
}

func TestOpenCensusAnnotator(t *testing.T) {
	collector := &spanCollector{}
	octrace.RegisterExporter(collector)
	t.Cleanup(func() { octrace.UnregisterExporter(collector) })
	octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})

	env, _ := newEnv(t)
	oca := profiler.NewOpenCensusAnnotator(env.Runtime, context.Background())
	require.NoError(t, oca.Enable())
	_, err := env.LoadString("test.tln", testProgram)
	require.NoError(t, err)
	assert.NoError(t, oca.Complete())

	var names []string
	for _, s := range collector.spans {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"setf", "get", "get", "+", "add2", "print"}, names)
	add2 := collector.spans[4]
	assert.Equal(t, add2.SpanContext.SpanID, collector.spans[3].ParentSpanID)
	require.Len(t, add2.Annotations, 1)
	assert.Equal(t, "source", add2.Annotations[0].Message)
	assert.Equal(t, int64(2), add2.Annotations[0].Attributes["line"])
}

func TestCallgrindProfiler(t *testing.T) {
	env, _ := newEnv(t)
	var buf bytes.Buffer
	cgp := profiler.NewCallgrindProfiler(env.Runtime)
	require.NoError(t, cgp.SetWriter(&buf))
	require.NoError(t, cgp.Enable())
	assert.Error(t, cgp.SetWriter(&buf))
	_, err := env.LoadString("test.tln", testProgram)
	require.NoError(t, err)
	require.NoError(t, cgp.Complete())

	prof := buf.String()
	assert.True(t, strings.HasPrefix(prof, "version: 1\ncreator: telan "))
	assert.Contains(t, prof, "events: Time_(ns) Memory_(bytes)")
	assert.Contains(t, prof, ") add2\n")
	assert.Contains(t, prof, ") ENTRYPOINT\n")
	assert.Contains(t, prof, "\nsummary ")
}

func TestCallgrindProfilerNoOutput(t *testing.T) {
	env, _ := newEnv(t)
	cgp := profiler.NewCallgrindProfiler(env.Runtime)
	assert.Error(t, cgp.Enable())
}

func TestPprofAnnotator(t *testing.T) {
	env, _ := newEnv(t)
	ppa := profiler.NewPprofAnnotator(env.Runtime, context.Background())
	var seen map[string]string
	probe := &telan.Operator{
		Name:    "probe",
		MaxArgs: 0,
		Action: func(env *telan.Env, args, locals []*telan.Value) *telan.Value {
			seen = ppa.Labels()
			return nil
		},
	}
	require.NoError(t, telan.WithOperators(probe)(env))
	require.NoError(t, ppa.Enable())
	_, err := env.LoadString("test.tln", "(probe)")
	require.NoError(t, err)
	require.NoError(t, ppa.Complete())
	assert.Equal(t, map[string]string{"operator": "probe"}, seen)
	assert.Empty(t, ppa.Labels())
}
