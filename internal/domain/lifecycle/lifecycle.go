// Package lifecycle holds shared constants for application startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds graceful startup and shutdown of long-lived
// components such as the HTTP server and database pools.
const DefaultTimeout = 10 * time.Second
