package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. The server
// entrypoint loads a .env file first, so values placed there are picked up
// here too.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	SECRET_KEY               JWT HMAC secret
//	TOKEN_VALIDITY_DURATION  session lifetime, Go duration syntax (e.g. "8h")
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.Addr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_VALIDITY_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}
}
