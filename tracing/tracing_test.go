package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("tooring", "0.0.1", exporter))

	ctx, parent := StartSpan(context.Background(), "worker.runOnce", KindInternal)
	current, ok := SpanFromContext(ctx)
	require.True(t, ok)
	assert.NotNil(t, current)

	_, child := StartSpan(ctx, "claim.schedule", KindClient)
	child.WithAttributes(map[string]string{"taskID": "t1"})
	EndSpan(child, errors.New("contended"))
	EndSpan(parent, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "claim.schedule", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	attributes := map[string]string{}
	for _, kv := range spans[0].Attributes {
		attributes[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "t1", attributes["taskID"])
	assert.Equal(t, spans[1].SpanContext.SpanID().String(), attributes["parent.span_id"])
	assert.Equal(t, codes.Ok, spans[1].Status.Code)

	_, ok = SpanFromContext(context.Background())
	assert.False(t, ok)
	EndSpan(nil, nil)
}
