package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInitLevel(t *testing.T) {
	require.NoError(t, Init("debug", ""))
	require.Equal(t, logrus.DebugLevel, Get().GetLevel())

	require.NoError(t, Init("nonsense", ""))
	require.Equal(t, logrus.InfoLevel, Get().GetLevel())
}

func TestInitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "run.log")
	require.NoError(t, Init("info", file))

	Get().Info("dispatch complete")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "dispatch complete")
	require.NoError(t, Close())
}

func TestInitClosesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	require.NoError(t, Init("info", first))
	old := logFile
	require.NotNil(t, old)

	require.NoError(t, Init("info", second))
	require.NotSame(t, old, logFile)

	_, err := old.Write([]byte("late\n"))
	require.ErrorIs(t, err, os.ErrClosed)

	Get().Info("second run")
	data, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Contains(t, string(data), "second run")

	require.NoError(t, Close())
	require.Nil(t, logFile)
	require.NoError(t, Close())
}
