package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanLogFiles(t *testing.T) {
	t.Run("Removes all elan2py.*.zst files", func(t *testing.T) {
		tmpDir := t.TempDir()

		// Set default paths to use temp directory
		oldDefaultPaths := defaultPaths
		defer func() {
			defaultPaths = oldDefaultPaths
		}()

		defaultPaths = &Paths{
			DataDir: tmpDir,
		}

		logFile1 := filepath.Join(tmpDir, "elan2py.1234.zst")
		logFile2 := filepath.Join(tmpDir, "elan2py.zst")
		otherFile := filepath.Join(tmpDir, "history.db")

		err := os.WriteFile(logFile1, []byte("log1"), 0644)
		require.NoError(t, err)
		err = os.WriteFile(logFile2, []byte("log2"), 0644)
		require.NoError(t, err)
		err = os.WriteFile(otherFile, []byte("other"), 0644)
		require.NoError(t, err)

		err = CleanLogFiles()
		require.NoError(t, err)

		_, err = os.Stat(logFile1)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(logFile2)
		assert.True(t, os.IsNotExist(err))

		// Non-log files stay put
		_, err = os.Stat(otherFile)
		assert.NoError(t, err, "Other file should not be removed")
	})

	t.Run("No log files present is not an error", func(t *testing.T) {
		tmpDir := t.TempDir()

		oldDefaultPaths := defaultPaths
		defer func() {
			defaultPaths = oldDefaultPaths
		}()

		defaultPaths = &Paths{
			DataDir: tmpDir,
		}

		err := CleanLogFiles()
		require.NoError(t, err)
	})
}

func TestDefaultPaths(t *testing.T) {
	oldDefaultPaths := defaultPaths
	defer func() {
		defaultPaths = oldDefaultPaths
	}()
	defaultPaths = nil

	assert.Equal(t, filepath.Join(HomeDir(), ".local", "share", "elan2py"), DataDir())
	assert.Equal(t, filepath.Join(DataDir(), "elan2py.zst"), LogFile())
	assert.Equal(t, filepath.Join(DataDir(), "history.db"), HistoryFile())
	assert.Equal(t, filepath.Join(DataDir(), "config.yaml"), ConfigFile())

	info, err := os.Stat(DataDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
