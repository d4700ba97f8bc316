package engine

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logrus.Entry {
	return logrus.NewEntry(logrus.New())
}

func TestRunSucceeds(t *testing.T) {
	osc := NewOSCommand(testLog())
	out, code, err := osc.Run("echo", "-n", "hi")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hi", out)
}

func TestRunNonZeroExit(t *testing.T) {
	osc := NewOSCommand(testLog())
	_, code, err := osc.Run("false")
	assert.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestProbe(t *testing.T) {
	osc := NewOSCommand(testLog())
	assert.True(t, osc.Probe("true"))
	assert.False(t, osc.Probe("this-binary-does-not-exist-xyz"))
}
