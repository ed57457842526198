// Package wiretest provides an in-process streaming gateway for tests.
package wiretest

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"easykaiko/src/interfaces"
	"easykaiko/src/wire"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// Behaviour scripts every subscription served by a Gateway.
type Behaviour struct {
	// Messages sent before the stream ends
	Messages int
	// Err is returned once the messages are sent; nil ends the stream cleanly
	Err error
	// Endless keeps sending until the client goes away
	Endless bool
}

// Call records one subscription received by the gateway.
type Call struct {
	Method        string
	Request       any
	Authorization []string
}

// -----------------------------------------------------------------------------

// Gateway serves the three streaming services over an in-memory listener.
type Gateway struct {
	behaviour Behaviour
	lis       *bufconn.Listener
	srv       *grpc.Server

	mu    sync.Mutex
	calls []Call
	ended chan string
}

// -----------------------------------------------------------------------------

// Start runs a gateway until the test ends.
func Start(t testing.TB, behaviour Behaviour) *Gateway {
	t.Helper()

	g := &Gateway{
		behaviour: behaviour,
		lis:       bufconn.Listen(1 << 20),
		srv:       grpc.NewServer(grpc.ForceServerCodec(wire.Codec{})),
		ended:     make(chan string, 64),
	}
	wire.RegisterStreamAggregatesOHLCVServiceV1Server(g.srv, ohlcvService{g})
	wire.RegisterStreamAggregatesVWAPServiceV1Server(g.srv, vwapService{g})
	wire.RegisterStreamTradesServiceV1Server(g.srv, tradesService{g})

	go func() {
		_ = g.srv.Serve(g.lis)
	}()
	t.Cleanup(g.srv.Stop)
	return g
}

// -----------------------------------------------------------------------------

// Dial opens a plaintext channel to the gateway.
func (g *Gateway) Dial() (*grpc.ClientConn, error) {
	return grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return g.lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
}

// Calls returns the subscriptions received so far.
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// WaitEnded blocks until a server handler returns and reports its method.
// It returns "" on timeout.
func (g *Gateway) WaitEnded(timeout time.Duration) string {
	select {
	case method := <-g.ended:
		return method
	case <-time.After(timeout):
		return ""
	}
}

// -----------------------------------------------------------------------------

func serve[Req, Res any](g *Gateway, req *Req, stream grpc.ServerStreamingServer[Res], next func(i int) *Res) error {
	ctx := stream.Context()
	method, _ := grpc.Method(ctx)
	md, _ := metadata.FromIncomingContext(ctx)

	g.mu.Lock()
	g.calls = append(g.calls, Call{Method: method, Request: req, Authorization: md.Get("authorization")})
	g.mu.Unlock()

	defer func() {
		select {
		case g.ended <- method:
		default:
		}
	}()

	for i := 0; g.behaviour.Endless || i < g.behaviour.Messages; i++ {
		if err := ctx.Err(); err != nil {
			return status.FromContextError(err).Err()
		}
		if err := stream.Send(next(i)); err != nil {
			return err
		}
	}
	return g.behaviour.Err
}

func timestamp(i int) time.Time {
	return time.Unix(1700000000+int64(i), 0).UTC()
}

// -----------------------------------------------------------------------------

type ohlcvService struct{ g *Gateway }

func (s ohlcvService) Subscribe(req *wire.StreamAggregatesOHLCVRequestV1, stream grpc.ServerStreamingServer[wire.StreamAggregatesOHLCVResponseV1]) error {
	c := req.InstrumentCriteria
	return serve(s.g, req, stream, func(i int) *wire.StreamAggregatesOHLCVResponseV1 {
		return &wire.StreamAggregatesOHLCVResponseV1{
			Aggregate:  req.Aggregate,
			Class:      c.InstrumentClass,
			Code:       c.Code,
			Exchange:   c.Exchange,
			Open:       "100",
			High:       "110",
			Low:        "95",
			Close:      "105",
			Volume:     "12.5",
			SequenceId: strconv.Itoa(i),
			Timestamp:  timestamp(i),
		}
	})
}

type vwapService struct{ g *Gateway }

func (s vwapService) Subscribe(req *wire.StreamAggregatesVWAPRequestV1, stream grpc.ServerStreamingServer[wire.StreamAggregatesVWAPResponseV1]) error {
	c := req.InstrumentCriteria
	return serve(s.g, req, stream, func(i int) *wire.StreamAggregatesVWAPResponseV1 {
		return &wire.StreamAggregatesVWAPResponseV1{
			Aggregate:  req.Aggregate,
			Class:      c.InstrumentClass,
			Code:       c.Code,
			Exchange:   c.Exchange,
			Price:      100 + float64(i),
			SequenceId: strconv.Itoa(i),
			Timestamp:  timestamp(i),
		}
	})
}

type tradesService struct{ g *Gateway }

func (s tradesService) Subscribe(req *wire.StreamTradesRequestV1, stream grpc.ServerStreamingServer[wire.StreamTradesResponseV1]) error {
	c := req.InstrumentCriteria
	return serve(s.g, req, stream, func(i int) *wire.StreamTradesResponseV1 {
		return &wire.StreamTradesResponseV1{
			Class:      c.InstrumentClass,
			Code:       c.Code,
			Exchange:   c.Exchange,
			Amount:     "0.5",
			Price:      "64000",
			Side:       "buy",
			SequenceId: strconv.Itoa(i),
			TradeId:    "t-" + strconv.Itoa(i),
			Timestamp:  timestamp(i),
		}
	})
}

// -----------------------------------------------------------------------------

// Factory is an IChannelFactory dialing a Gateway. It counts the channels it
// opens and how many of them were closed.
type Factory struct {
	Gateway *Gateway
	// Err makes OpenChannel fail
	Err error

	mu     sync.Mutex
	keys   []string
	opens  atomic.Int32
	closes atomic.Int32
}

// NewFactory creates a Factory for g.
func NewFactory(g *Gateway) *Factory {
	return &Factory{Gateway: g}
}

// OpenChannel implements interfaces.IChannelFactory.
func (f *Factory) OpenChannel(apiKey string) (interfaces.IChannel, error) {
	f.mu.Lock()
	f.keys = append(f.keys, apiKey)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	conn, err := f.Gateway.Dial()
	if err != nil {
		return nil, err
	}
	f.opens.Add(1)
	return &countingChannel{ClientConn: conn, closes: &f.closes}, nil
}

// Opens is the number of channels opened.
func (f *Factory) Opens() int { return int(f.opens.Load()) }

// Closes is the number of Close calls on opened channels.
func (f *Factory) Closes() int { return int(f.closes.Load()) }

// Keys lists the API keys passed to OpenChannel.
func (f *Factory) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

type countingChannel struct {
	*grpc.ClientConn
	closes *atomic.Int32
}

func (c *countingChannel) Close() error {
	c.closes.Add(1)
	return c.ClientConn.Close()
}
