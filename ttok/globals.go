package internal

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultConfigPath is the default path to the config file
	DefaultAppName          = "ttok"
	DefaultConfigPath       = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultVocabFile        = filepath.Join(DefaultConfigPath, "vocab.txt")
	DefaultModelFile        = filepath.Join(DefaultConfigPath, "model.onnx")
	DefaultGlobalConfigFile = filepath.Join(DefaultConfigPath, "config.yaml")

	// DefaultModelMaxLength is the fixed feature length common table QA
	// checkpoints expect. Column and row id caps default to this value too.
	DefaultModelMaxLength = 512
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			// Last resort - use tmp directory
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
