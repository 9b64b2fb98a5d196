package textgen

import (
	"context"
	"testing"

	"github.com/odit-bit/textgen/textgen/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitObservability_Disabled(t *testing.T) {
	shutdown, err := InitObservability(context.Background(), "textgen", config.Observability{Enable: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestExporters(t *testing.T) {
	ctx := context.Background()

	spans, err := newSpanExporter(ctx, config.Observability{Exporter: ExporterStdout})
	require.NoError(t, err)
	require.NoError(t, spans.Shutdown(ctx))

	reader, err := newMetricReader(ctx, config.Observability{Exporter: ExporterStdout})
	require.NoError(t, err)
	assert.NotNil(t, reader)

	_, err = newSpanExporter(ctx, config.Observability{Exporter: "zipkin"})
	assert.ErrorContains(t, err, `unknown exporter "zipkin"`)
	_, err = newMetricReader(ctx, config.Observability{Exporter: "zipkin"})
	assert.ErrorContains(t, err, `unknown exporter "zipkin"`)
}
