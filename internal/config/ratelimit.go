package config

import "time"

// RateLimitConfig defines the token bucket applied to auth and public
// endpoints. The bucket is kept per client IP in Redis so limits hold across
// replicas.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // maximum burst size
	RefillTokens   int           // tokens added per interval
	RefillInterval time.Duration // how often tokens are added
	KeyTTL         time.Duration // idle lifetime of a bucket
	Prefix         string
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig. Defaults allow 20 requests as a burst, refilling 10 per
// second.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Capacity:       atoi(getenv("RATE_LIMIT_CAPACITY", "20")),
		RefillTokens:   atoi(getenv("RATE_LIMIT_REFILL_TOKENS", "10")),
		RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "1s")),
		KeyTTL:         parseDur(getenv("RATE_LIMIT_KEY_TTL", "10m")),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
	}
}
