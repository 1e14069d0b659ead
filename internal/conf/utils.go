package conf

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
)

const appDirName = "ecotachos"

// GetDefaultConfigPaths returns the directories searched for config.yaml.
// When one of them already holds a config file only that directory is returned.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	var configPaths []string
	switch runtime.GOOS {
	case "windows":
		configPaths = []string{
			".",
			filepath.Join(homeDir, "AppData", "Roaming", appDirName),
		}
	default:
		configPaths = []string{
			".",
			filepath.Join(homeDir, ".config", appDirName),
			filepath.Join("/etc", appDirName),
		}
	}

	for _, path := range configPaths {
		if _, err := os.Stat(filepath.Join(path, "config.yaml")); err == nil {
			return []string{path}, nil
		}
	}
	return configPaths, nil
}

// DefaultConfigFile returns the path config init writes to when none is given.
func DefaultConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName, "config.yaml"), nil
	}
	return filepath.Join(homeDir, ".config", appDirName, "config.yaml"), nil
}
