package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)).With("module", "cli")

	log.Info(context.Background(), "uploaded", "file_id", "f1", "size", 42)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "uploaded", line["message"])
	assert.Equal(t, "cli", line["module"])
	assert.Equal(t, "f1", line["file_id"])
	assert.EqualValues(t, 42, line["size"])
}

func TestZerologLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	assert.Zero(t, buf.Len())

	log.Warn(ctx, "shown")
	log.Error(ctx, "shown too")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, zerolog.InfoLevel)

	log.Info(context.Background(), "job started", "job_id", "j1")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "job started")
	assert.Contains(t, out, "job_id=j1")
}

var _ Logger = (*ZerologLogger)(nil)
