// Package config loads the service configuration from a YAML file,
// with APP_* environment variables taking precedence.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr            string
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN          string
		MaxConns     int32         `mapstructure:"max_conns"`
		MinConns     int32         `mapstructure:"min_conns"`
		QueryTimeout time.Duration `mapstructure:"query_timeout"`
	} `mapstructure:"postgres"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`

	Status struct {
		DemandWindowDays int `mapstructure:"demand_window_days"`
		NoTurnoverDays   int `mapstructure:"no_turnover_days"`
		AgingDays        int `mapstructure:"aging_days"`

		// Rules are optional CEL override expressions, evaluated in
		// order before the built-in cascade.
		Rules []StatusRule `mapstructure:"rules"`
	} `mapstructure:"status"`

	Feed struct {
		Limit int `mapstructure:"limit"`
	} `mapstructure:"feed"`
}

// StatusRule is one operator-defined classification override.
type StatusRule struct {
	Name       string `mapstructure:"name"`
	Expression string `mapstructure:"expression"`
	Status     string `mapstructure:"status"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	setDefaults(v)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "America/Sao_Paulo")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("postgres.max_conns", 25)
	v.SetDefault("postgres.min_conns", 5)
	v.SetDefault("postgres.query_timeout", 30*time.Second)

	v.SetDefault("auth.token_ttl", 8*time.Hour)

	v.SetDefault("status.demand_window_days", 30)
	v.SetDefault("status.no_turnover_days", 30)
	v.SetDefault("status.aging_days", 90)

	v.SetDefault("feed.limit", 100)
}
