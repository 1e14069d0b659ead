package logger

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level        string            `yaml:"level" json:"level"`                 // debug, info, warn, error
	JSON         bool              `yaml:"json" json:"json"`                   // JSON records instead of text
	FilePath     string            `yaml:"file" json:"file"`                   // optional log file, stderr when empty
	ModuleLevels map[string]string `yaml:"module_levels" json:"module_levels"` // per-module log levels
}
