package stream

import (
	"context"
	"errors"
	"fmt"

	"easykaiko/src/models"
	"easykaiko/src/wire"

	"google.golang.org/grpc"
)

var (
	ErrUnknownStreamType = errors.New("unknown stream type")
	ErrUnsupportedOption = errors.New("option not supported by stream type")
)

// -----------------------------------------------------------------------------

// Options are the stream-specific request fields.
// Aggregate applies to ohlcv and vwap only.
type Options struct {
	Aggregate string
}

// recvFunc blocks until the next server message, io.EOF or an error.
type recvFunc func() (wire.Message, error)

// preparedCall is a built request waiting for a channel.
type preparedCall struct {
	Request any
	open    func(ctx context.Context, cc grpc.ClientConnInterface) (recvFunc, error)
}

// streamTraits binds a stream type to its request and stub constructors.
type streamTraits struct {
	Type    models.MStreamType
	Method  string
	prepare func(criteria *wire.InstrumentCriteria, opts Options) (*preparedCall, error)
}

// stubClient is the subscribe side of a generated service client.
type stubClient[Req, Res any] interface {
	Subscribe(ctx context.Context, in *Req, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Res], error)
}

// -----------------------------------------------------------------------------

// traitsFor resolves the constructors of a stream type.
func traitsFor(streamType models.MStreamType) (streamTraits, error) {
	switch streamType {
	case models.StreamTypeOHLCV:
		return newTraits[wire.StreamAggregatesOHLCVRequestV1, wire.StreamAggregatesOHLCVResponseV1, *wire.StreamAggregatesOHLCVResponseV1](
			streamType,
			wire.StreamAggregatesOHLCVServiceV1_Subscribe_FullMethodName,
			func(cc grpc.ClientConnInterface) stubClient[wire.StreamAggregatesOHLCVRequestV1, wire.StreamAggregatesOHLCVResponseV1] {
				return wire.NewStreamAggregatesOHLCVServiceV1Client(cc)
			},
			func(criteria *wire.InstrumentCriteria, opts Options) (*wire.StreamAggregatesOHLCVRequestV1, error) {
				return &wire.StreamAggregatesOHLCVRequestV1{InstrumentCriteria: criteria, Aggregate: opts.Aggregate}, nil
			},
		), nil

	case models.StreamTypeVWAP:
		return newTraits[wire.StreamAggregatesVWAPRequestV1, wire.StreamAggregatesVWAPResponseV1, *wire.StreamAggregatesVWAPResponseV1](
			streamType,
			wire.StreamAggregatesVWAPServiceV1_Subscribe_FullMethodName,
			func(cc grpc.ClientConnInterface) stubClient[wire.StreamAggregatesVWAPRequestV1, wire.StreamAggregatesVWAPResponseV1] {
				return wire.NewStreamAggregatesVWAPServiceV1Client(cc)
			},
			func(criteria *wire.InstrumentCriteria, opts Options) (*wire.StreamAggregatesVWAPRequestV1, error) {
				return &wire.StreamAggregatesVWAPRequestV1{InstrumentCriteria: criteria, Aggregate: opts.Aggregate}, nil
			},
		), nil

	case models.StreamTypeTrades:
		return newTraits[wire.StreamTradesRequestV1, wire.StreamTradesResponseV1, *wire.StreamTradesResponseV1](
			streamType,
			wire.StreamTradesServiceV1_Subscribe_FullMethodName,
			func(cc grpc.ClientConnInterface) stubClient[wire.StreamTradesRequestV1, wire.StreamTradesResponseV1] {
				return wire.NewStreamTradesServiceV1Client(cc)
			},
			func(criteria *wire.InstrumentCriteria, opts Options) (*wire.StreamTradesRequestV1, error) {
				if opts.Aggregate != "" {
					return nil, fmt.Errorf("aggregate %q: %w", opts.Aggregate, ErrUnsupportedOption)
				}
				return &wire.StreamTradesRequestV1{InstrumentCriteria: criteria}, nil
			},
		), nil

	default:
		return streamTraits{}, fmt.Errorf("%w: %q", ErrUnknownStreamType, streamType)
	}
}

// -----------------------------------------------------------------------------

// newTraits erases the request/response types of one stream behind streamTraits.
func newTraits[Req, Res any, PRes interface {
	*Res
	wire.Message
}](
	streamType models.MStreamType,
	method string,
	newStub func(cc grpc.ClientConnInterface) stubClient[Req, Res],
	newRequest func(criteria *wire.InstrumentCriteria, opts Options) (*Req, error),
) streamTraits {
	return streamTraits{
		Type:   streamType,
		Method: method,
		prepare: func(criteria *wire.InstrumentCriteria, opts Options) (*preparedCall, error) {
			req, err := newRequest(criteria, opts)
			if err != nil {
				return nil, err
			}
			return &preparedCall{
				Request: req,
				open: func(ctx context.Context, cc grpc.ClientConnInterface) (recvFunc, error) {
					stream, err := newStub(cc).Subscribe(ctx, req)
					if err != nil {
						return nil, err
					}
					return func() (wire.Message, error) {
						msg, err := stream.Recv()
						if err != nil {
							return nil, err
						}
						return PRes(msg), nil
					}, nil
				},
			}, nil
		},
	}
}
