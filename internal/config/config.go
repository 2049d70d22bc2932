package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Settings holds the plugin-level configuration consumed by the pre-login
// and reconciliation engines.
type Settings struct {
	// BedrockPrefix is the nickname prefix reserved for bridged clients.
	// Java clients presenting it through the verified-name channel are denied.
	BedrockPrefix string

	// OfflineModePrefix marks names that already failed verification so a
	// re-injected connection skips the failure-cache check. It also
	// isolates the unverified namespace from the verified one.
	OfflineModePrefix string

	// OnlineModePrefix is prepended to verified-mode display names (may be empty)
	OnlineModePrefix string

	// OfflineModeHost forces unverified mode when the virtual host used to
	// reach the proxy contains this substring (empty disables the check)
	OfflineModeHost string

	// OnlyOfflineMode forces unverified mode for every connection
	OnlyOfflineMode bool

	// SaveUUID enables identifier reconciliation against stored records
	SaveUUID bool

	// FailureCacheEnabled gates the downgrade path: when off, every
	// non-forced connection gets verified mode on each attempt
	FailureCacheEnabled bool

	// BcryptCost is the work factor used when hashing passwords
	BcryptCost int

	// PreCheckDelay is how long after a verified decision to check whether
	// the connection completed, before writing a failure-cache entry
	PreCheckDelay time.Duration

	// FailureCacheTTL bounds how long a failure entry stays relevant
	FailureCacheTTL time.Duration

	// PostLoginDelay defers the one-shot post-login callback so the
	// client finishes switching servers first
	PostLoginDelay time.Duration
}

// DefaultSettings returns sensible defaults
func DefaultSettings() Settings {
	return Settings{
		BedrockPrefix:       ".",
		OfflineModePrefix:   "OF_",
		OnlineModePrefix:    "",
		OfflineModeHost:     "",
		OnlyOfflineMode:     false,
		SaveUUID:            true,
		FailureCacheEnabled: true,
		BcryptCost:          bcrypt.DefaultCost,
		PreCheckDelay:       4 * time.Second,
		FailureCacheTTL:     4 * time.Second,
		PostLoginDelay:      1500 * time.Millisecond,
	}
}

// FromEnv returns settings overridden from AUTH_* environment variables
func FromEnv() Settings {
	s := DefaultSettings()
	s.BedrockPrefix = getEnvOrDefault("AUTH_BEDROCK_PREFIX", s.BedrockPrefix)
	s.OfflineModePrefix = getEnvOrDefault("AUTH_OFFLINE_MODE_PREFIX", s.OfflineModePrefix)
	s.OnlineModePrefix = getEnvOrDefault("AUTH_ONLINE_MODE_PREFIX", s.OnlineModePrefix)
	s.OfflineModeHost = getEnvOrDefault("AUTH_OFFLINE_MODE_HOST", s.OfflineModeHost)
	s.OnlyOfflineMode = getEnvBool("AUTH_ONLY_OFFLINE_MODE", s.OnlyOfflineMode)
	s.SaveUUID = getEnvBool("AUTH_SAVE_UUID", s.SaveUUID)
	s.FailureCacheEnabled = getEnvBool("AUTH_FAILURE_CACHE", s.FailureCacheEnabled)
	s.BcryptCost = getEnvInt("AUTH_BCRYPT_COST", s.BcryptCost)
	s.PreCheckDelay = getEnvDuration("AUTH_PRE_CHECK_DELAY", s.PreCheckDelay)
	s.FailureCacheTTL = getEnvDuration("AUTH_FAILURE_CACHE_TTL", s.FailureCacheTTL)
	s.PostLoginDelay = getEnvDuration("AUTH_POST_LOGIN_DELAY", s.PostLoginDelay)
	return s
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
