package ports

import (
	"context"
)

// APIServer defines the interface for the HTTP API front end
type APIServer interface {
	// Start begins serving requests
	Start() error

	// Stop shuts the server down gracefully
	Stop(ctx context.Context) error
}
