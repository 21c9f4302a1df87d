package config

import (
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port     int
	Seed     bool
	LogLevel string
	LogJSON  bool
}

func Parse() *Config {
	cfg := &Config{}
	flag.IntVar(&cfg.Port, "port", envInt("BIBLIOTECA_PORT", 5000), "listen port")
	flag.BoolVar(&cfg.Seed, "seed", envBool("BIBLIOTECA_SEED", true), "load sample books and users on startup")
	flag.StringVar(&cfg.LogLevel, "log-level", envStr("BIBLIOTECA_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	flag.BoolVar(&cfg.LogJSON, "log-json", envBool("BIBLIOTECA_LOG_JSON", false), "emit logs as JSON")
	flag.Parse()
	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
