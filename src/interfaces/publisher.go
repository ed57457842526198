package interfaces

import "easykaiko/src/wire"

// -----------------------------------------------------------------------------

// IPublisher defines the interface for publishing streamed market data
type IPublisher interface {
	// OnMessage serializes and publishes one streamed message
	OnMessage(msg wire.Message) error

	// Connect establishes connection to the message broker
	Connect() error

	// Disconnect closes the connection to the message broker
	Disconnect() error

	// IsConnected returns the current connection status
	IsConnected() bool
}
