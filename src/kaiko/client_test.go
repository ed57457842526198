package kaiko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"easykaiko/src/models"
	"easykaiko/src/rest"
	"easykaiko/src/stream"
	"easykaiko/src/wire"
	"easykaiko/src/wire/wiretest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirectTransport sends every request to a local server and remembers the
// URL the client asked for.
type redirectTransport struct {
	target *url.URL

	mu        sync.Mutex
	requested []*url.URL
}

func (rt *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	u := *req.URL
	rt.requested = append(rt.requested, &u)
	rt.mu.Unlock()

	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	out.Host = ""
	return http.DefaultTransport.RoundTrip(out)
}

func (rt *redirectTransport) urls() []*url.URL {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]*url.URL(nil), rt.requested...)
}

func newRESTClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *redirectTransport) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	rt := &redirectTransport{target: target}

	opts = append([]Option{WithHTTPClient(&http.Client{Transport: rt})}, opts...)
	return NewClient("secret", opts...), rt
}

func echoPath(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, `{"result":"success","data":[{"path":%q,"key":%q}]}`, r.URL.Path, r.Header.Get("X-Api-Key"))
}

func TestClient_HistoricalEndpoints(t *testing.T) {
	const base = "https://us.market-api.kaiko.io/v2/data/trades.v1/exchanges/cbse/spot/btc-usd"

	tests := []struct {
		name string
		call func(c *Client) error
		want string
	}{
		{"ohlcv", func(c *Client) error {
			_, err := c.GetOHLCV(context.Background(), "cbse", "spot", "btc-usd", rest.QueryParams{Interval: "1d"})
			return err
		}, base + "/aggregations/ohlcv"},
		{"vwap", func(c *Client) error {
			_, err := c.GetVWAP(context.Background(), "cbse", "spot", "btc-usd", rest.QueryParams{Interval: "1d"})
			return err
		}, base + "/aggregations/vwap"},
		{"trades", func(c *Client) error {
			_, err := c.GetTrades(context.Background(), "cbse", "spot", "btc-usd", rest.QueryParams{Interval: "1d"})
			return err
		}, base + "/trades"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rt := newRESTClient(t, echoPath)
			require.NoError(t, tt.call(c))

			urls := rt.urls()
			require.Len(t, urls, 1)
			u := *urls[0]
			assert.Equal(t, "1d", u.Query().Get("interval"))
			u.RawQuery = ""
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestClient_GetOHLCVReturnsRecords(t *testing.T) {
	c, _ := newRESTClient(t, echoPath)

	records, err := c.GetOHLCV(context.Background(), "cbse", "spot", "btc-usd", rest.QueryParams{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t,
		`{"path":"/v2/data/trades.v1/exchanges/cbse/spot/btc-usd/aggregations/ohlcv","key":"secret"}`,
		string(records[0]))
}

func TestClient_Region(t *testing.T) {
	c, rt := newRESTClient(t, echoPath, WithRegion("eu"))

	_, err := c.GetTrades(context.Background(), "krkn", "spot", "eth-usd", rest.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, "eu.market-api.kaiko.io", rt.urls()[0].Host)
}

func TestClient_ServerErrorSurfaces(t *testing.T) {
	c, _ := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"error","message":"instrument not found"}`)
	})

	records, err := c.GetVWAP(context.Background(), "cbse", "spot", "nope", rest.QueryParams{})
	assert.Nil(t, records)
	assert.ErrorIs(t, err, rest.ErrServerReported)
	assert.EqualError(t, err, "instrument not found")
}

// -----------------------------------------------------------------------------

func newStreamClient(t *testing.T, behaviour wiretest.Behaviour) (*Client, *wiretest.Gateway, *wiretest.Factory) {
	t.Helper()
	gw := wiretest.Start(t, behaviour)
	factory := wiretest.NewFactory(gw)
	return NewClient("secret", WithChannelFactory(factory)), gw, factory
}

func TestClient_SubscribeOHLCVDefaultsAggregate(t *testing.T) {
	c, gw, factory := newStreamClient(t, wiretest.Behaviour{Messages: 2})

	bars, err := c.SubscribeOHLCV(context.Background(), "cbse", "spot", "btc-usd", "")
	require.NoError(t, err)

	var got []*wire.StreamAggregatesOHLCVResponseV1
	for bar, err := range bars {
		require.NoError(t, err)
		got = append(got, bar)
	}

	require.Len(t, got, 2)
	assert.Equal(t, "1m", got[0].Aggregate)
	assert.Equal(t, "105", got[1].Close)

	req, ok := gw.Calls()[0].Request.(*wire.StreamAggregatesOHLCVRequestV1)
	require.True(t, ok)
	assert.Equal(t, "1m", req.Aggregate)
	assert.Equal(t, []string{"secret"}, factory.Keys())
	assert.Equal(t, 1, factory.Closes())
}

func TestClient_SubscribeVWAPExplicitAggregate(t *testing.T) {
	c, gw, _ := newStreamClient(t, wiretest.Behaviour{Messages: 1})

	prices, err := c.SubscribeVWAP(context.Background(), "cbse", "spot", "btc-usd", "1s")
	require.NoError(t, err)

	for price, err := range prices {
		require.NoError(t, err)
		assert.Equal(t, "1s", price.Aggregate)
		assert.Equal(t, 100.0, price.Price)
	}

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, wire.StreamAggregatesVWAPServiceV1_Subscribe_FullMethodName, calls[0].Method)
}

func TestClient_SubscribeTradesEarlyBreak(t *testing.T) {
	c, _, factory := newStreamClient(t, wiretest.Behaviour{Endless: true})

	trades, err := c.SubscribeTrades(context.Background(), "cbse", "spot", "btc-usd")
	require.NoError(t, err)

	var first *wire.StreamTradesResponseV1
	for trade, err := range trades {
		require.NoError(t, err)
		first = trade
		break
	}

	require.NotNil(t, first)
	assert.Equal(t, "t-0", first.TradeId)
	assert.Equal(t, 1, factory.Closes())
}

func TestClient_SubscribeUnknownType(t *testing.T) {
	c, _, factory := newStreamClient(t, wiretest.Behaviour{Messages: 1})

	seq, err := c.Subscribe(context.Background(), models.MStreamType("book"), models.MInstrumentCriteria{}, "")
	assert.Nil(t, seq)
	assert.ErrorIs(t, err, stream.ErrUnknownStreamType)
	assert.Empty(t, factory.Keys())
}

func TestClient_SubscribeTradesRejectsAggregate(t *testing.T) {
	c, _, _ := newStreamClient(t, wiretest.Behaviour{Messages: 1})

	_, err := c.Subscribe(context.Background(), models.StreamTypeTrades,
		models.MInstrumentCriteria{Exchange: "cbse", InstrumentClass: "spot", Code: "btc-usd"}, "1m")
	assert.ErrorIs(t, err, stream.ErrUnsupportedOption)
}
