package serializers

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"easykaiko/src/interfaces"
	"easykaiko/src/wire"
)

func init() {
	// concrete types travelling behind wire.Message
	gob.Register(&wire.StreamAggregatesOHLCVResponseV1{})
	gob.Register(&wire.StreamAggregatesVWAPResponseV1{})
	gob.Register(&wire.StreamTradesResponseV1{})
}

// -----------------------------------------------------------------------------

// BinSerializer encodes values with encoding/gob for Go consumers of the relay.
type BinSerializer struct{}

// -----------------------------------------------------------------------------

// NewBinSerializer creates a new instance of the Gob serializer.
func NewBinSerializer() interfaces.ISerializer {
	return &BinSerializer{}
}

// -----------------------------------------------------------------------------

func (g *BinSerializer) Marshal(obj any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(obj); err != nil {
		return nil, fmt.Errorf("gob marshal error: %w", err)
	}
	return buf.Bytes(), nil
}

// -----------------------------------------------------------------------------

// Unmarshal converts a Gob byte array back into the target object.
func (g *BinSerializer) Unmarshal(data []byte, obj any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(obj); err != nil {
		return fmt.Errorf("gob unmarshal error: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (g *BinSerializer) ContentType() string {
	return "application/x-gob"
}
