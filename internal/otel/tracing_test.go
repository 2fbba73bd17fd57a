package otel

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicantreview/internal/logging"
)

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")
	var buf bytes.Buffer

	shutdown, err := Init(context.Background(), logging.New(&buf, time.UTC))

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tracing_configured", entry["event"])
	assert.Equal(t, false, entry["tracing_enabled"])
	assert.Equal(t, "tracing", entry["component"])
}

func TestInit_UnsupportedProtocolDegrades(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")
	var buf bytes.Buffer

	shutdown, err := Init(context.Background(), logging.New(&buf, time.UTC))

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "tracing_init_failed")
}

func TestSampler(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "always_on", want: "AlwaysOnSampler"},
		{name: "always_off", want: "AlwaysOffSampler"},
		{name: "traceidratio", arg: "0.5", want: "TraceIDRatioBased{0.5}"},
		{name: "traceidratio", arg: "nope", want: "AlwaysOnSampler"},
		{name: "parentbased_always_off", want: "ParentBased{root:AlwaysOffSampler"},
		{name: "", want: "ParentBased{root:AlwaysOnSampler"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.arg, func(t *testing.T) {
			assert.Contains(t, sampler(tt.name, tt.arg).Description(), tt.want)
		})
	}
}
