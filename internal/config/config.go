package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string `env:"HTTP_PORT" envDefault:"8080"`
	AppBaseURL         string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	DBMaxConns         int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns         int32  `env:"DB_MIN_CONNS" envDefault:"1"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`
	SessionSecret      string `env:"SESSION_SECRET" envDefault:"dev-session-secret"`
	SessionTTLMinutes  int    `env:"SESSION_TTL_MINUTES" envDefault:"10080"`
	OAuthStateTTLMin   int    `env:"OAUTH_STATE_TTL_MINUTES" envDefault:"10"`
	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
// La ausencia de un valor requerido es un error fatal de arranque.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
