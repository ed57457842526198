package rest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		dataKind string
		region   string
		want     string
	}{
		{
			name:     "aggregations default region",
			dataKind: "aggregations",
			want:     "https://us.market-api.kaiko.io/v2/data/trades.v1/exchanges/cbse/spot/btc-usd/aggregations",
		},
		{
			name:     "trades explicit region",
			dataKind: "trades",
			region:   "eu",
			want:     "https://eu.market-api.kaiko.io/v2/data/trades.v1/exchanges/cbse/spot/btc-usd/trades",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildEndpoint(tt.dataKind, "cbse", "spot", "btc-usd", tt.region))
		})
	}
}

func TestAggregationEndpoint(t *testing.T) {
	assert.Equal(t,
		"https://us.market-api.kaiko.io/v2/data/trades.v1/exchanges/krkn/spot/eth-usd/aggregations/vwap",
		AggregationEndpoint("vwap", "krkn", "spot", "eth-usd", ""))
}

func TestQueryParams_Values(t *testing.T) {
	params := QueryParams{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:  "1d",
		Sort:      "desc",
		PageSize:  100,
		Extra:     map[string]string{"sources": "true", "interval": "1h"},
	}

	values, err := params.Values()
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01T00:00:00Z", values.Get("start_time"))
	assert.Equal(t, "desc", values.Get("sort"))
	assert.Equal(t, "100", values.Get("page_size"))
	assert.Equal(t, "true", values.Get("sources"))
	assert.Equal(t, "1h", values.Get("interval"))
	assert.False(t, values.Has("end_time"))
}

func TestQueryParams_ZeroValueIsEmpty(t *testing.T) {
	values, err := QueryParams{}.Values()
	require.NoError(t, err)
	assert.Empty(t, values)
}
