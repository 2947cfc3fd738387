package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCreatesLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "logs", "srvhelper.log")

	require.NoError(t, Setup(path, "debug"))
	defer SetOutput(os.Stderr)

	Infof("hello %s", "world")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
}

func TestSetupBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("", "nonsense"))
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Debugf("should be filtered")
	Infof("should appear")

	assert.NotContains(t, buf.String(), "should be filtered")
	assert.Contains(t, buf.String(), "should appear")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("", "info"))
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithFields(Fields{"dir": "/backups"}).Info("watching")

	assert.Contains(t, buf.String(), "watching")
	assert.Contains(t, buf.String(), "/backups")
}
