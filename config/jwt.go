package config

import (
	"os"
	"time"
)

var JWTSecret []byte
var JWTExpiration time.Duration

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "qa-simulator-dev-secret"
	}
	JWTSecret = []byte(secret)
	JWTExpiration = 24 * time.Hour
}
