package conf

import "github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"

// GetLogger returns the module logger for configuration handling
func GetLogger() logger.Logger {
	return logger.Global().Module("conf")
}
