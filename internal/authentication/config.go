package authentication

import (
	"os"
)

type Config struct {
	JWTSecret string
	Disabled  bool
}

func LoadConfig() *Config {
	return &Config{
		JWTSecret: os.Getenv("JWT_SECRET"),
		Disabled:  os.Getenv("AUTH_DISABLED") == "true",
	}
}
