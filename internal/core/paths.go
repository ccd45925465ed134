package core

import (
	"os"
	"path/filepath"
	"strings"
)

type Paths struct {
	HomeDir     string
	DataDir     string
	LogFile     string
	HistoryFile string
	ConfigFile  string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		defaultPaths = &Paths{
			HomeDir:     homeDir,
			DataDir:     filepath.Join(homeDir, ".local", "share", "elan2py"),
			LogFile:     filepath.Join(homeDir, ".local", "share", "elan2py", "elan2py.zst"),
			HistoryFile: filepath.Join(homeDir, ".local", "share", "elan2py", "history.db"),
			ConfigFile:  filepath.Join(homeDir, ".local", "share", "elan2py", "config.yaml"),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func HistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.HistoryFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// CleanLogFiles removes every compressed log file in the data directory.
// Called on startup when the fresh_log config option is set.
func CleanLogFiles() error {
	ensureDefaultPaths()

	entries, err := os.ReadDir(defaultPaths.DataDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "elan2py.") && strings.HasSuffix(name, ".zst") {
			filePath := filepath.Join(defaultPaths.DataDir, name)
			if err := os.Remove(filePath); err != nil {
				return err
			}
		}
	}

	return nil
}
