package serializers

import (
	"fmt"

	"easykaiko/src/interfaces"
)

// New returns the serializer registered under name ("json" or "gob").
func New(name string) (interfaces.ISerializer, error) {
	switch name {
	case "", "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewBinSerializer(), nil
	default:
		return nil, fmt.Errorf("unknown serializer '%s'", name)
	}
}
