package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
)

// config holds the demo's environment-driven settings, grounded in this
// corpus's getEnv/getEnvInt Load() convention: every variable has a safe
// default and nothing is required. An integer variable that fails to parse
// falls back silently to its default; a POLLCERT_CANISTER_ID that is not
// valid hex makes loadConfig return an error.
type config struct {
	CanisterID      []byte
	TicksUntilReply int
	MaxAgeMinutes   int
	LogPrefix       string
	PollTimeoutSecs int
}

func loadConfig() (config, error) {
	canisterIDHex := getEnv("POLLCERT_CANISTER_ID", "00000000000004d2")
	canisterID, err := hex.DecodeString(canisterIDHex)
	if err != nil {
		return config{}, fmt.Errorf("POLLCERT_CANISTER_ID is not valid hex: %w", err)
	}

	return config{
		CanisterID:      canisterID,
		TicksUntilReply: getEnvInt("POLLCERT_TICKS_UNTIL_REPLY", 2),
		MaxAgeMinutes:   getEnvInt("POLLCERT_MAX_AGE_MINUTES", 5),
		LogPrefix:       getEnv("POLLCERT_LOG_PREFIX", "[pollcert] "),
		PollTimeoutSecs: getEnvInt("POLLCERT_TIMEOUT_SECS", 30),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
