package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsIndependentLoggers(t *testing.T) {
	dev, err := New(Config{Development: true})
	require.NoError(t, err)
	require.NotNil(t, dev)

	prod, err := New(Config{Development: false})
	require.NoError(t, err)
	require.NotNil(t, prod)

	// each call configures its own logger; no shared singleton
	assert.NotSame(t, dev, prod)
}
