package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: SITEGEAR_SITE_ROOT sets site.root.
const EnvPrefix = "SITEGEAR"

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown-timeout", 30*time.Second)

	v.SetDefault("site.root", "site")
	v.SetDefault("site.name", "Sitegear")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.sentry-dsn", "")
	v.SetDefault("log.sentry-environment", "production")

	v.SetDefault("session.cookie-name", "__sid")
	v.SetDefault("session.max-age", 30*24*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.capacity", 100000)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.prefix", "sitegear:session")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max-conns", 10)
	v.SetDefault("database.min-conns", 1)
	v.SetDefault("database.retry-attempts", 3)
	v.SetDefault("database.retry-interval", 5*time.Second)

	v.SetDefault("mail.api-key", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.from-name", "")

	v.SetDefault("jobs.enabled", false)
	v.SetDefault("jobs.max-workers", 10)

	v.SetDefault("modules.forms.mount", "/forms")
	v.SetDefault("modules.forms.watch", true)
	v.SetDefault("modules.forms.directory", "forms")

	v.SetDefault("modules.submissions.retention", 90*24*time.Hour)
	v.SetDefault("modules.submissions.purge-schedule", "0 3 * * *")
}

// LoadConfig reads configuration from file, or from sitegear.{yaml,json,toml}
// in the working directory when file is empty. A missing default file is not
// an error. Environment variables override both.
func LoadConfig(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file == "" {
		file = v.GetString("config-file")
	}
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("sitegear")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("engine: read config: %w", err)
		}
	}
	return v, nil
}
