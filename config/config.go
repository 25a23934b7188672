package config

import (
	"os"
	"strconv"
)

func (c *AppConfig) applyEnv() {
	c.Ozon.ClientID = getEnv("OZON_CLIENT_ID", c.Ozon.ClientID)
	c.Ozon.ApiKey = getEnv("OZON_API_KEY", c.Ozon.ApiKey)
	c.Ozon.ApiURL = getEnv("OZON_API_URL", c.Ozon.ApiURL)

	c.Postgres.Enabled = getEnvBool("POSTGRES_ENABLED", c.Postgres.Enabled)
	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnv("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.DBName = getEnv("POSTGRES_NAME", c.Postgres.DBName)

	c.Metrics.Addr = getEnv("METRICS_ADDR", c.Metrics.Addr)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
