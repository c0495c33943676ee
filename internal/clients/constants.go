package clients

import "time"

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 200 * time.Millisecond
	MAX_BACKOFF     = 2 * time.Second
	USER_AGENT      = "sentiscore-client/1.0 (+https://github.com/spacesedan/sentiscore)"

	VALKEY_RETRIES           = 2
	VALKEY_RETRY_DELAY       = 50 * time.Millisecond
	VALKEY_RECONNECT_TIMEOUT = 3 * time.Second

	// Consecutive failed commands before the breaker opens, and how long it
	// stays open before a trial command is let through.
	VALKEY_BREAKER_FAILURES = 5
	VALKEY_BREAKER_DELAY    = 30 * time.Second
)
