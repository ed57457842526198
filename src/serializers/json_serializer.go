package serializers

import (
	"encoding/json"
	"fmt"

	"easykaiko/src/interfaces"
)

// -----------------------------------------------------------------------------

// JSONSerializer implements interfaces.ISerializer with encoding/json.
type JSONSerializer struct{}

// -----------------------------------------------------------------------------

// NewJSONSerializer creates a new instance of the JSON serializer.
func NewJSONSerializer() interfaces.ISerializer {
	return &JSONSerializer{}
}

// -----------------------------------------------------------------------------

// Marshal converts the value to a JSON document.
func (j *JSONSerializer) Marshal(obj any) ([]byte, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("json marshal error: %w", err)
	}
	return data, nil
}

// -----------------------------------------------------------------------------

// Unmarshal decodes a JSON document into obj.
func (j *JSONSerializer) Unmarshal(data []byte, obj any) error {
	if err := json.Unmarshal(data, obj); err != nil {
		return fmt.Errorf("json unmarshal error: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (j *JSONSerializer) ContentType() string {
	return "application/json"
}
