package interfaces

import (
	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// IChannel is a bidirectional gRPC channel owned by exactly one subscription.
type IChannel interface {
	grpc.ClientConnInterface

	// Close releases the underlying connection
	Close() error
}

// -----------------------------------------------------------------------------

// IChannelFactory opens authenticated channels to the streaming gateway.
type IChannelFactory interface {
	// OpenChannel creates a new channel bearing the given API key on every call
	OpenChannel(apiKey string) (IChannel, error)
}
