package submission

import "github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"

// GetLogger returns the module logger for detection submission
func GetLogger() logger.Logger {
	return logger.Global().Module("submission")
}
