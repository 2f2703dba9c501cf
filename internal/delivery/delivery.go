// Package delivery defines the contract every transport (HTTP, workers)
// implements so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport serving the application.
type Delivery interface {
	// Serve blocks until the transport stops or the context is cancelled.
	Serve(ctx context.Context) error
}
