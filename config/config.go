package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cinehall/booking/internal/util"
)

type Config struct {
	DatabaseDSN  string
	Addr         string
	CacheURL     string
	MQURL        string
	ClaimTimeout time.Duration
	SeedData     bool
}

const defaultClaimTimeout = 3 * time.Second

func LoadConfig() (*Config, error) {
	if err := util.LoadEnv(); err != nil {
		return nil, err
	}
	cfg := &Config{
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		Addr:         os.Getenv("ADDR"),
		CacheURL:     os.Getenv("CACHE_URL"),
		MQURL:        os.Getenv("RABBIT_MQ_URL"),
		ClaimTimeout: defaultClaimTimeout,
		SeedData:     os.Getenv("SEED_DATA") == "true",
	}
	if ms := os.Getenv("CLAIM_TIMEOUT_MS"); ms != "" {
		v, err := strconv.Atoi(ms)
		if err != nil {
			return nil, err
		}
		cfg.ClaimTimeout = time.Duration(v) * time.Millisecond
	}
	return cfg, nil
}
