package calculation

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debugf("hidden %d", 1)
	logger.Infof("scenario %q done", "a")
	logger.Warnf("careful")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"calculation"`)
	assert.Contains(t, out, `scenario \"a\" done`)
	assert.Contains(t, out, `"level":"warn"`)
}
