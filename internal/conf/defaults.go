// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("backend.baseurl", "http://localhost:8000/api")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("backend.useragent", "ecotachos-engine/1.0")
	v.SetDefault("backend.lookupcachettl", 10*time.Minute)

	v.SetDefault("user.id", 0)

	v.SetDefault("location.enabled", false)
	v.SetDefault("location.latitude", 0.0)
	v.SetDefault("location.longitude", 0.0)
	v.SetDefault("location.timeout", 10*time.Second)

	v.SetDefault("proximity.radiuskm", 1.0)

	v.SetDefault("submission.maxdimension", 1280)
	v.SetDefault("submission.jpegquality", 85)
	v.SetDefault("submission.tempdir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.modulelevels", map[string]string{})

	v.SetDefault("telemetry.sentry.enabled", false)
	v.SetDefault("telemetry.sentry.dsn", "")

	v.SetDefault("metrics.listen", "")

	v.SetDefault("watch.interval", time.Minute)
}
