package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextWithLogger_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	ctx, closeFn := NewContextWithLogger(context.Background(), &buf, false)

	FromCtx(ctx).Info().Str("stage", "retrieve").Msg("hello")
	FromCtx(ctx).Debug().Msg("hidden")
	closeFn()

	out := buf.String()
	require.Contains(t, out, "hello")
	assert.Contains(t, out, "stage=retrieve")
	assert.NotContains(t, out, "hidden")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	ctx, closeFn := NewContextWithLogger(context.Background(), &buf, true)

	ctx = WithFields(ctx, map[string]any{"request_id": "abc"})
	FromCtx(ctx).Debug().Msg("tagged")
	closeFn()

	assert.Contains(t, buf.String(), "request_id=abc")
}
