package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown", "segment", 1)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "segment")
}
