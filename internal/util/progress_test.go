package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPrefixes(t *testing.T) {
	var buf bytes.Buffer
	ProgressStep(&buf, "fetching %s\n", "config")
	ProgressDone(&buf, "saved\n")
	ProgressFail(&buf, "denied\n")

	assert.Equal(t, "→ fetching config\n✓ saved\n✗ denied\n", buf.String())
}

func TestProgress_NilWriterIsQuiet(t *testing.T) {
	assert.NotPanics(t, func() {
		Progress(nil, "ignored %d", 1)
	})
}
