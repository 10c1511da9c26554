package db

import "time"

// Database connection constants
const (
	// ConnectionRetrySleep is the sleep duration between connection retries
	ConnectionRetrySleep = 2 * time.Second
	// maxConnectionRetries is the number of retries for initial connection
	maxConnectionRetries = 5
)
