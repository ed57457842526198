package rest

import "fmt"

const (
	DefaultRegion = "us"

	DataKindAggregations = "aggregations"
	DataKindTrades       = "trades"
)

// BuildEndpoint returns the REST URL of a data kind for one instrument.
// Inputs are interpolated as-is.
func BuildEndpoint(dataKind, exchange, instrumentClass, instrument, region string) string {
	if region == "" {
		region = DefaultRegion
	}
	return fmt.Sprintf("https://%s.market-api.kaiko.io/v2/data/trades.v1/exchanges/%s/%s/%s/%s",
		region, exchange, instrumentClass, instrument, dataKind)
}

// AggregationEndpoint returns the endpoint of a named aggregation (ohlcv, vwap...).
func AggregationEndpoint(aggregation, exchange, instrumentClass, instrument, region string) string {
	return BuildEndpoint(DataKindAggregations, exchange, instrumentClass, instrument, region) + "/" + aggregation
}
