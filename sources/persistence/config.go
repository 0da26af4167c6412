package persistence

import (
	"fmt"
	"net"
	"strconv"

	"grokcord/sources/configuration"
)

func postgresDSN(config configuration.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode, config.TimeZone,
	)
}

func redisAddr(config configuration.RedisConfig) string {
	return net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
}
