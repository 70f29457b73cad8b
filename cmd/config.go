package cmd

import "time"

type Config struct {
	HTTPPort         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSslMode        string
	RedisAddr        string
	RedisPassword    string
	GoogleMapsAPIKey string
	AttemptTimeout   time.Duration
	LocationTTL      time.Duration
}
