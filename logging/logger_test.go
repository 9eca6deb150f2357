package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"GazeMenu/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Debug("toggled", "target", "WhereIsIt")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "toggled", rec["msg"])
	assert.Equal(t, "WhereIsIt", rec["target"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "text", Output: &buf})
	require.NoError(t, err)

	logger.Info("quiet")
	assert.Empty(t, buf.String())
	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewRejectsUnknown(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	opts := FromConfig(config.Default().Log)
	assert.Equal(t, "info", opts.Level)
	assert.Equal(t, "text", opts.Format)
	assert.NotNil(t, Discard())
}
