package qdispatch

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

/*
Config selects and tunes the processor a program runs against. The zero
values of the regulator settings switch the matching regulator off.
*/
type Config struct {
	Target       string
	Tolerance    float64
	Seed         uint64
	MaxFailures  int
	ResetTimeout time.Duration
	HalfOpenMax  int
	RateLimit    int
	RefillRate   time.Duration
	MaxAttempts  int
	Backoff      time.Duration
}

func NewConfig() *Config {
	return &Config{
		Target:       "simulator",
		Tolerance:    1e-9,
		ResetTimeout: 10 * time.Second,
		HalfOpenMax:  1,
		RefillRate:   time.Millisecond,
		MaxAttempts:  3,
		Backoff:      10 * time.Millisecond,
	}
}

/*
LoadConfig reads settings from path (any format viper understands) with
QDISPATCH_ prefixed environment variables taking precedence. An empty path
reads the environment only.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetEnvPrefix("QDISPATCH")
	v.AutomaticEnv()

	v.SetDefault("target", defaults.Target)
	v.SetDefault("tolerance", defaults.Tolerance)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("max_failures", defaults.MaxFailures)
	v.SetDefault("reset_timeout", defaults.ResetTimeout)
	v.SetDefault("half_open_max", defaults.HalfOpenMax)
	v.SetDefault("rate_limit", defaults.RateLimit)
	v.SetDefault("refill_rate", defaults.RefillRate)
	v.SetDefault("max_attempts", defaults.MaxAttempts)
	v.SetDefault("backoff", defaults.Backoff)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	return &Config{
		Target:       v.GetString("target"),
		Tolerance:    v.GetFloat64("tolerance"),
		Seed:         v.GetUint64("seed"),
		MaxFailures:  v.GetInt("max_failures"),
		ResetTimeout: v.GetDuration("reset_timeout"),
		HalfOpenMax:  v.GetInt("half_open_max"),
		RateLimit:    v.GetInt("rate_limit"),
		RefillRate:   v.GetDuration("refill_rate"),
		MaxAttempts:  v.GetInt("max_attempts"),
		Backoff:      v.GetDuration("backoff"),
	}, nil
}
