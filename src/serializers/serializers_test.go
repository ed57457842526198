package serializers

import (
	"testing"
	"time"

	"easykaiko/src/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "application/json", s.ContentType())

	s, err = New("gob")
	require.NoError(t, err)
	assert.Equal(t, "application/x-gob", s.ContentType())

	_, err = New("xml")
	assert.ErrorContains(t, err, "unknown serializer 'xml'")
}

func TestJSONSerializer_StreamMessage(t *testing.T) {
	msg := &wire.StreamTradesResponseV1{
		Exchange:  "cbse",
		Price:     "64000.1",
		Side:      "sell",
		Timestamp: time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data, err := NewJSONSerializer().Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":"2024-01-01T00:00:01Z"`)
	assert.Contains(t, string(data), `"side":"sell"`)

	err = NewJSONSerializer().Unmarshal([]byte("{"), &wire.StreamTradesResponseV1{})
	assert.ErrorContains(t, err, "json unmarshal error")
}

func TestBinSerializer_InterfaceValue(t *testing.T) {
	s := NewBinSerializer()

	var in wire.Message = &wire.StreamAggregatesOHLCVResponseV1{Exchange: "cbse", Close: "42"}
	data, err := s.Marshal(&in)
	require.NoError(t, err)

	var out wire.Message
	require.NoError(t, s.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
