package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	err := Initialize(VerbosityInfo, false)
	require.NoError(t, err)
	require.NotNil(t, Logger)

	// Must not panic
	Infof("generation started: %d paths", 2)
	Warnw("skip invalid file", "path", "demo.txt")
	Cleanup()
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(VerbosityUser, true)
	require.NoError(t, err)
	require.NotNil(t, Logger)
	Cleanup()
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.Equal(t, "Debug (-vv+)", LevelName(5))
}
