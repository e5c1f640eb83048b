package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/richardkriesman/batterypack/internal/errs"
)

const (
	EnvTSC      = "BATTERYPACK_TSC"
	EnvPrettier = "BATTERYPACK_PRETTIER"
	EnvJest     = "BATTERYPACK_JEST"
	EnvAWS      = "BATTERYPACK_AWS"
)

// Settings names the executables batterypack delegates to.
type Settings struct {
	TSC      string
	Prettier string
	Jest     string
	AWS      string
}

// DefaultSettings expects every tool on PATH.
func DefaultSettings() Settings {
	return Settings{
		TSC:      "tsc",
		Prettier: "prettier",
		Jest:     "jest",
		AWS:      "aws",
	}
}

// LoadSettings reads tool overrides from the environment, then from a .env
// file in root. The process environment wins over .env.
func LoadSettings(root string) (Settings, error) {
	fileEnv := map[string]string{}
	path := filepath.Join(root, ".env")
	if values, err := godotenv.Read(path); err == nil {
		fileEnv = values
	} else if !errs.IsNotExist(err) {
		return Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lookup := func(key, fallback string) string {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
		if value := strings.TrimSpace(fileEnv[key]); value != "" {
			return value
		}
		return fallback
	}

	defaults := DefaultSettings()
	return Settings{
		TSC:      lookup(EnvTSC, defaults.TSC),
		Prettier: lookup(EnvPrettier, defaults.Prettier),
		Jest:     lookup(EnvJest, defaults.Jest),
		AWS:      lookup(EnvAWS, defaults.AWS),
	}, nil
}
