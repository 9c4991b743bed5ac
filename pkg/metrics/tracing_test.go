package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMethodCall_NoopWithoutNewRelic(t *testing.T) {
	tracer := TraceMethodCall(context.Background(), "pkg", "Method")
	assert.Nil(t, tracer)

	// Nil tracers are safe to use
	tracer.AddAttribute("key", "value")
	tracer.OnError(errors.New("failure"))
	tracer.End()

	RecordCount(context.Background(), "count", 1)
	RecordDuration(context.Background(), "duration", time.Second)
}

func TestTraceMethodCall_WithTransaction(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("arcium-client-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	txn := app.StartTransaction("test")
	defer txn.End()

	ctx := NewContext(newrelic.NewContext(context.Background(), txn), app)

	tracer := TraceMethodCall(ctx, "pkg", "Method")
	require.NotNil(t, tracer)
	assert.Equal(t, "pkg Method", tracer.name)
	assert.NotNil(t, tracer.seg)

	tracer.AddAttribute("key", "value")
	tracer.OnError(errors.New("failure"))
	assert.True(t, tracer.failed)
	tracer.End()
}

func TestTraceMethodCall_ApplicationOnly(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("arcium-client-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	tracer := TraceMethodCall(NewContext(context.Background(), app), "pkg", "Method")
	require.NotNil(t, tracer)
	assert.Nil(t, tracer.seg)
	tracer.AddAttribute("key", "value")
	tracer.End()
}
