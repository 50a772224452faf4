package configuration

import (
	"errors"
	"io/fs"

	"crowdfund-service/infrastructure/logger"

	"github.com/joho/godotenv"
)

// LoadEnvFromFile loads KEY=VALUE pairs from the given files. Variables that
// are already set in the process environment win. Missing files are skipped.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.GetLogger().WithField("file", p).Debug("env file not found")
				continue
			}
			logger.GetLogger().WithField("file", p).WithField("error", err).Warn("Failed to load env file")
			continue
		}
		logger.GetLogger().WithField("file", p).Info("Loaded env file")
	}
}
