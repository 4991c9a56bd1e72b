package log

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	l, cleanup, err := New(nil)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewInvalidLevel(t *testing.T) {
	_, _, err := New(&Config{Level: "nope"})
	assert.Error(t, err)
}

func TestNewJSONFormat(t *testing.T) {
	l, cleanup, err := New(&Config{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, cleanup, err := New(&Config{Level: "info", Output: "file", OutputFile: path})
	require.NoError(t, err)

	l.Info("hello")
	cleanup()

	assert.FileExists(t, path)
}

func TestNewFileOutputMissingPath(t *testing.T) {
	_, _, err := New(&Config{Level: "info", Output: "file"})
	assert.Error(t, err)
}
