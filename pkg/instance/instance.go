package instance

import (
	"os"

	"github.com/angelmondragon/bistro-backend/pkg/env"
)

const fallbackID = "local"

// ID names this process in logs: BISTRO_INSTANCE_ID, then the platform's
// DYNO, then the hostname.
func ID() string {
	if id := env.Get("BISTRO_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
