package stream

import (
	"testing"

	"easykaiko/src/models"
	"easykaiko/src/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraitsFor_KnownTypes(t *testing.T) {
	criteria := wire.NewInstrumentCriteria(btcUSD)

	for _, streamType := range models.StreamTypes {
		t.Run(string(streamType), func(t *testing.T) {
			traits, err := traitsFor(streamType)
			require.NoError(t, err)
			assert.Equal(t, streamType, traits.Type)
			assert.NotEmpty(t, traits.Method)

			call, err := traits.prepare(criteria, Options{})
			require.NoError(t, err)
			assert.NotNil(t, call.Request)
		})
	}
}

func TestTraitsFor_AggregateIsCopiedToRequest(t *testing.T) {
	traits, err := traitsFor(models.StreamTypeVWAP)
	require.NoError(t, err)

	call, err := traits.prepare(wire.NewInstrumentCriteria(btcUSD), Options{Aggregate: "5m"})
	require.NoError(t, err)

	req, ok := call.Request.(*wire.StreamAggregatesVWAPRequestV1)
	require.True(t, ok)
	assert.Equal(t, "5m", req.Aggregate)
	assert.Equal(t, "spot", req.InstrumentCriteria.InstrumentClass)
}

func TestTraitsFor_Unknown(t *testing.T) {
	for _, streamType := range []models.MStreamType{"", "OHLCV", "orderbook"} {
		_, err := traitsFor(streamType)
		assert.ErrorIs(t, err, ErrUnknownStreamType, "stream type %q", streamType)
	}
}
