// Package kaiko is the public entry point: historical queries over the REST
// API and realtime subscriptions over the streaming gateway, behind one API key.
//
//	client := kaiko.NewClient(os.Getenv("KAIKO_API_KEY"))
//	records, err := client.GetOHLCV(ctx, "cbse", "spot", "btc-usd", rest.QueryParams{Interval: "1d"})
//
//	bars, err := client.SubscribeOHLCV(ctx, "cbse", "spot", "btc-usd", "1m")
//	for bar, err := range bars {
//		...
//	}
package kaiko

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"

	"easykaiko/src/factories"
	"easykaiko/src/interfaces"
	"easykaiko/src/logger"
	"easykaiko/src/models"
	"easykaiko/src/rest"
	"easykaiko/src/stream"
	"easykaiko/src/wire"
)

// DefaultAggregate is the aggregation window of ohlcv and vwap subscriptions
// when none is given.
const DefaultAggregate = "1m"

var _ interfaces.ISubscriber = (*Client)(nil)

// -----------------------------------------------------------------------------

// Client holds the API key and the collaborators built from it. It keeps no
// per-call state and is safe for concurrent use.
type Client struct {
	Name       string
	apiKey     string
	region     string
	gateway    string
	httpClient *http.Client
	factory    interfaces.IChannelFactory
	logger     *logger.Logger

	paginator *rest.Paginator
	driver    *stream.Driver
}

// Option configures a Client.
type Option func(*Client)

// WithRegion selects the REST API region, "us" by default.
func WithRegion(region string) Option {
	return func(c *Client) { c.region = region }
}

// WithHTTPClient replaces http.DefaultClient for REST queries.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithGateway sets the host:port of the streaming gateway.
func WithGateway(gateway string) Option {
	return func(c *Client) { c.gateway = gateway }
}

// WithChannelFactory replaces the TLS channel factory; WithGateway is then ignored.
func WithChannelFactory(factory interfaces.IChannelFactory) Option {
	return func(c *Client) { c.factory = factory }
}

// WithLogger sets the logger shared by the client's components.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// -----------------------------------------------------------------------------

// NewClient creates a Client for apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		Name:    "KaikoClient",
		apiKey:  apiKey,
		region:  rest.DefaultRegion,
		gateway: factories.DefaultGateway,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.NewNopLogger()
	}
	if c.factory == nil {
		c.factory = factories.NewSecureChannelFactory(c.gateway, c.logger)
	}

	c.paginator = rest.NewPaginator(apiKey, c.httpClient, c.logger)
	c.driver = stream.NewDriver(apiKey, c.factory, c.logger)
	return c
}

// -----------------------------------------------------------------------------
// Historical data
// -----------------------------------------------------------------------------

// GetOHLCV returns every OHLCV record matching params, across all pages.
func (c *Client) GetOHLCV(ctx context.Context, exchange, instrumentClass, code string, params rest.QueryParams) ([]json.RawMessage, error) {
	return c.getAggregation(ctx, "ohlcv", exchange, instrumentClass, code, params)
}

// GetVWAP returns every VWAP record matching params, across all pages.
func (c *Client) GetVWAP(ctx context.Context, exchange, instrumentClass, code string, params rest.QueryParams) ([]json.RawMessage, error) {
	return c.getAggregation(ctx, "vwap", exchange, instrumentClass, code, params)
}

// GetTrades returns every trade matching params, across all pages.
func (c *Client) GetTrades(ctx context.Context, exchange, instrumentClass, code string, params rest.QueryParams) ([]json.RawMessage, error) {
	endpoint := rest.BuildEndpoint(rest.DataKindTrades, exchange, instrumentClass, code, c.region)
	return c.fetch(ctx, endpoint, params)
}

func (c *Client) getAggregation(ctx context.Context, aggregation, exchange, instrumentClass, code string, params rest.QueryParams) ([]json.RawMessage, error) {
	endpoint := rest.AggregationEndpoint(aggregation, exchange, instrumentClass, code, c.region)
	return c.fetch(ctx, endpoint, params)
}

func (c *Client) fetch(ctx context.Context, endpoint string, params rest.QueryParams) ([]json.RawMessage, error) {
	values, err := params.Values()
	if err != nil {
		return nil, err
	}
	return c.paginator.FetchAll(ctx, endpoint, values)
}

// -----------------------------------------------------------------------------
// Realtime data
// -----------------------------------------------------------------------------

// SubscribeOHLCV streams OHLCV bars of the given window; "" means DefaultAggregate.
func (c *Client) SubscribeOHLCV(ctx context.Context, exchange, instrumentClass, code, aggregate string) (iter.Seq2[*wire.StreamAggregatesOHLCVResponseV1, error], error) {
	seq, err := c.Subscribe(ctx, models.StreamTypeOHLCV, criteria(exchange, instrumentClass, code), aggregate)
	if err != nil {
		return nil, err
	}
	return typed[*wire.StreamAggregatesOHLCVResponseV1](seq), nil
}

// SubscribeVWAP streams VWAP prices of the given window; "" means DefaultAggregate.
func (c *Client) SubscribeVWAP(ctx context.Context, exchange, instrumentClass, code, aggregate string) (iter.Seq2[*wire.StreamAggregatesVWAPResponseV1, error], error) {
	seq, err := c.Subscribe(ctx, models.StreamTypeVWAP, criteria(exchange, instrumentClass, code), aggregate)
	if err != nil {
		return nil, err
	}
	return typed[*wire.StreamAggregatesVWAPResponseV1](seq), nil
}

// SubscribeTrades streams individual trades.
func (c *Client) SubscribeTrades(ctx context.Context, exchange, instrumentClass, code string) (iter.Seq2[*wire.StreamTradesResponseV1, error], error) {
	seq, err := c.Subscribe(ctx, models.StreamTypeTrades, criteria(exchange, instrumentClass, code), "")
	if err != nil {
		return nil, err
	}
	return typed[*wire.StreamTradesResponseV1](seq), nil
}

// Subscribe opens a subscription of any stream type. Aggregate defaults to
// DefaultAggregate for ohlcv and vwap and must be empty for trades.
// Each range over the returned sequence owns its own channel.
func (c *Client) Subscribe(ctx context.Context, streamType models.MStreamType, criteria models.MInstrumentCriteria, aggregate string) (iter.Seq2[wire.Message, error], error) {
	if aggregate == "" && streamType != models.StreamTypeTrades {
		aggregate = DefaultAggregate
	}
	return c.driver.Subscribe(ctx, streamType, criteria, stream.Options{Aggregate: aggregate})
}

// -----------------------------------------------------------------------------

func criteria(exchange, instrumentClass, code string) models.MInstrumentCriteria {
	return models.MInstrumentCriteria{Exchange: exchange, InstrumentClass: instrumentClass, Code: code}
}

// typed narrows a message sequence to the concrete response type of one stream.
func typed[T wire.Message](seq iter.Seq2[wire.Message, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for msg, err := range seq {
			if err != nil {
				yield(zero, err)
				return
			}
			m, ok := msg.(T)
			if !ok {
				yield(zero, fmt.Errorf("unexpected %T message, want %T", msg, zero))
				return
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}
