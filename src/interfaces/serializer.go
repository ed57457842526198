package interfaces

// -----------------------------------------------------------------------------

// ISerializer defines the contract for marshaling and unmarshaling data.
// The REST paginator decodes page envelopes with it and the NATS publisher
// encodes streamed messages with it.
type ISerializer interface {
	// Marshal converts a Go value into a byte slice.
	Marshal(obj any) ([]byte, error)

	// Unmarshal converts a byte slice back into a Go value.
	Unmarshal(data []byte, obj any) error

	// ContentType describes the encoding, e.g. for message headers.
	ContentType() string
}
